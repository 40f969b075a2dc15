// Package etree inspects 3MF packages using the etree XML library.
package etree

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/makerfetch"
)

// Paths inside a 3MF package.
const (
	ModelPath     = "3D/3dmodel.model"
	SliceInfoPath = "Metadata/slice_info.config"
)

// maxEntryBytes bounds how much of a single archive entry is decompressed.
const maxEntryBytes = 64 << 20

// Ensure Inspector implements makerfetch.ArchiveInspector at compile time.
var _ makerfetch.ArchiveInspector = (*Inspector)(nil)

// Inspector reads model metadata and per-plate slicer results from 3MF
// packages.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect implements makerfetch.ArchiveInspector. The model part is
// required; slice info is optional and only present in sliced projects.
func (i *Inspector) Inspect(data []byte) (*makerfetch.ArchiveSummary, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening 3MF archive: %w", err)
	}

	model, err := readXML(zr, ModelPath)
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("3MF archive has no %s", ModelPath)
	}

	summary := &makerfetch.ArchiveSummary{}
	root := model.Root()
	if root == nil || root.Tag != "model" {
		return nil, fmt.Errorf("%s has no model element", ModelPath)
	}
	for _, meta := range root.SelectElements("metadata") {
		value := strings.TrimSpace(meta.Text())
		switch strings.ToLower(meta.SelectAttrValue("name", "")) {
		case "title":
			summary.Title = value
		case "designer":
			summary.Designer = value
		case "application":
			summary.Application = value
		}
	}
	if resources := root.SelectElement("resources"); resources != nil {
		summary.Objects = len(resources.SelectElements("object"))
	}

	sliceInfo, err := readXML(zr, SliceInfoPath)
	if err != nil {
		return nil, err
	}
	if sliceInfo != nil && sliceInfo.Root() != nil {
		for n, plate := range sliceInfo.Root().SelectElements("plate") {
			summary.Plates = append(summary.Plates, parsePlate(plate, n+1))
		}
	}

	return summary, nil
}

func parsePlate(plate *etree.Element, fallbackIndex int) makerfetch.PlateSummary {
	meta := make(map[string]string)
	for _, m := range plate.SelectElements("metadata") {
		meta[m.SelectAttrValue("key", "")] = m.SelectAttrValue("value", "")
	}

	p := makerfetch.PlateSummary{
		Index:          fallbackIndex,
		PrinterModelID: meta["printer_model_id"],
	}
	if idx, err := strconv.Atoi(meta["index"]); err == nil && idx > 0 {
		p.Index = idx
	}
	if v, ok := parsePositive(firstField(meta["nozzle_diameters"])); ok {
		p.NozzleDiameter = &v
	}
	if v, ok := parsePositive(meta["prediction"]); ok {
		hours := v / 3600
		p.EstimatedHours = &hours
	}
	if v, ok := parsePositive(meta["weight"]); ok {
		p.EstimatedGrams = &v
	}
	for _, f := range plate.SelectElements("filament") {
		if t := f.SelectAttrValue("type", ""); t != "" {
			p.Filaments = append(p.Filaments, t)
		}
	}
	return p
}

// readXML parses the named entry, returning nil when it is absent.
func readXML(zr *zip.Reader, name string) (*etree.Document, error) {
	for _, f := range zr.File {
		if !strings.EqualFold(strings.TrimPrefix(f.Name, "/"), name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", name, err)
		}
		defer rc.Close()

		doc := etree.NewDocument()
		if _, err := doc.ReadFrom(io.LimitReader(rc, maxEntryBytes)); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		return doc, nil
	}
	return nil, nil
}

// firstField returns the first of several space or comma separated values.
func firstField(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' })
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func parsePositive(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
