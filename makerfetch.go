// Package makerfetch resolves public 3D model page URLs into print profile
// metadata and a downloadable asset.
//
// Resolution tries the upstream design-service API first and falls back to
// the JSON payload embedded in the rendered model page. Both sources are fed
// through the same schema-agnostic extraction and a deterministic variant
// selection. Failures are reported as data: Resolve and Download return
// outcomes with a reason code instead of errors.
//
// This package contains domain types, interfaces and the pure extraction and
// selection logic, following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., http/, goquery/, etree/).
package makerfetch
