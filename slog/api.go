package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/makerfetch"
	"github.com/fwojciec/makerfetch/jsontree"
)

// Ensure LoggingAPI implements makerfetch.API.
var _ makerfetch.API = (*LoggingAPI)(nil)

// LoggingAPI wraps an API client with debug logging of every call.
type LoggingAPI struct {
	next   makerfetch.API
	logger *slog.Logger
}

// NewLoggingAPI creates a new LoggingAPI.
func NewLoggingAPI(next makerfetch.API, logger *slog.Logger) *LoggingAPI {
	return &LoggingAPI{next: next, logger: logger}
}

func (a *LoggingAPI) Design(ctx context.Context, designID int64, req makerfetch.Request) (v jsontree.Value, err error) {
	defer a.log("design", designID, time.Now(), &err)
	return a.next.Design(ctx, designID, req)
}

func (a *LoggingAPI) Instances(ctx context.Context, designID int64, req makerfetch.Request) (v jsontree.Value, err error) {
	defer a.log("instances", designID, time.Now(), &err)
	return a.next.Instances(ctx, designID, req)
}

func (a *LoggingAPI) Profile(ctx context.Context, profileID int64, req makerfetch.Request) (v jsontree.Value, err error) {
	defer a.log("profile", profileID, time.Now(), &err)
	return a.next.Profile(ctx, profileID, req)
}

func (a *LoggingAPI) InstanceAsset(ctx context.Context, instanceID int64, req makerfetch.Request) (v jsontree.Value, err error) {
	defer a.log("instance asset", instanceID, time.Now(), &err)
	return a.next.InstanceAsset(ctx, instanceID, req)
}

func (a *LoggingAPI) DesignModel(ctx context.Context, designID int64, req makerfetch.Request) (v jsontree.Value, err error) {
	defer a.log("design model", designID, time.Now(), &err)
	return a.next.DesignModel(ctx, designID, req)
}

func (a *LoggingAPI) log(endpoint string, id int64, begin time.Time, err *error) {
	a.logger.Debug("api call",
		"endpoint", endpoint,
		"id", id,
		"duration", time.Since(begin),
		"reason", makerfetch.ErrorCode(*err),
	)
}
