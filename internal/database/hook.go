package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
)

// QueryLogger is a bun.QueryHook that logs every query at debug level and
// failed queries at error level.
type QueryLogger struct{}

var _ bun.QueryHook = QueryLogger{}

// BeforeQuery implements bun.QueryHook.
func (QueryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery implements bun.QueryHook.
func (QueryLogger) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	var e *zerolog.Event
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		e = log.Error().Err(event.Err)
	} else {
		e = log.Debug()
	}
	e.Str("operation", event.Operation()).
		Dur("duration", time.Since(event.StartTime)).
		Str("query", event.Query).
		Msg("SQL query")
}
