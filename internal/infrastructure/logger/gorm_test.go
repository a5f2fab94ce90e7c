package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func TestNewGormLogger_Options(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.True(t, gl.logNotFound)
	assert.False(t, gl.boundValues)
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	changed, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Warn, changed.logLevel)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
}

func TestGormLogger_Messages(t *testing.T) {
	ctx := context.Background()

	gl, recorded := newObservedGormLogger(gormlogger.Info)
	gl.Info(ctx, "info %s", "value")
	gl.Warn(ctx, "warn %d", 42)
	gl.Error(ctx, "error")

	logs := recorded.All()
	require.Len(t, logs, 3)
	assert.Equal(t, "info value", logs[0].Message)
	assert.Equal(t, "warn 42", logs[1].Message)
	assert.Equal(t, zapcore.ErrorLevel, logs[2].Level)

	silent, silentLogs := newObservedGormLogger(gormlogger.Silent)
	silent.Info(ctx, "dropped")
	silent.Error(ctx, "dropped")
	assert.Empty(t, silentLogs.All())
}

func TestGormLogger_Trace(t *testing.T) {
	sql := func() (string, int64) { return `SELECT * FROM "favorite_movies"`, 3 }

	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		opts    []GormLoggerOption
		begin   time.Time
		err     error
		message string // empty means nothing is logged
	}{
		{name: "error", level: gormlogger.Error, begin: time.Now(), err: errors.New("boom"), message: "SQL Error"},
		{name: "record not found ignored", level: gormlogger.Error, begin: time.Now(), err: gormlogger.ErrRecordNotFound},
		{
			name: "record not found logged", level: gormlogger.Error, begin: time.Now(),
			opts: []GormLoggerOption{WithIgnoreRecordNotFoundError(false)},
			err:  gormlogger.ErrRecordNotFound, message: "SQL Error",
		},
		{
			name: "slow query", level: gormlogger.Warn, begin: time.Now().Add(-time.Second),
			opts:    []GormLoggerOption{WithSlowThreshold(time.Millisecond)},
			message: "Slow SQL",
		},
		{name: "normal query", level: gormlogger.Info, begin: time.Now(), message: "SQL Query"},
		{name: "normal query below info", level: gormlogger.Warn, begin: time.Now()},
		{name: "silent", level: gormlogger.Silent, begin: time.Now(), err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gl, recorded := newObservedGormLogger(tt.level, tt.opts...)
			gl.Trace(context.Background(), tt.begin, sql, tt.err)

			if tt.message == "" {
				assert.Empty(t, recorded.All())
				return
			}
			logs := recorded.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.message, logs[0].Message)
			fields := logs[0].ContextMap()
			assert.Equal(t, `SELECT * FROM "favorite_movies"`, fields["sql"])
			assert.Equal(t, "favorite_movies", fields["table"])
			assert.Equal(t, "SELECT", fields["operation"])
		})
	}
}

func TestGormLogger_Trace_CollectionContext(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)
	ctx := WithUserID(WithRequestID(context.Background(), "req-7"), "user-42")

	gl.Trace(ctx, time.Now(), func() (string, int64) {
		return `DELETE FROM "watchlist_movies" WHERE user_id = $1 AND movie_id = $2`, 2
	}, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "watchlist_movies", fields["table"])
	assert.Equal(t, "DELETE", fields["operation"])
	assert.Equal(t, "req-7", fields["request_id"])
	assert.Equal(t, "user-42", fields["user_id"])
	assert.EqualValues(t, 2, fields["rows"])
}

func TestGormLogger_ParamsFilter(t *testing.T) {
	const sql = `INSERT INTO "users" ("email","password_hash") VALUES ($1,$2)`

	hidden, _ := newObservedGormLogger(gormlogger.Info)
	gotSQL, params := hidden.ParamsFilter(context.Background(), sql, "a@b.com", "$2a$10$hash")
	assert.Equal(t, sql, gotSQL)
	assert.Nil(t, params)

	shown, _ := newObservedGormLogger(gormlogger.Info, WithBoundValues(true))
	_, params = shown.ParamsFilter(context.Background(), sql, "a@b.com", "$2a$10$hash")
	assert.Equal(t, []any{"a@b.com", "$2a$10$hash"}, params)
}

func TestStatementTable(t *testing.T) {
	tests := []struct {
		sql  string
		want string
	}{
		{`SELECT * FROM "favorite_movies" WHERE user_id = $1`, "favorite_movies"},
		{`INSERT INTO "reviews" ("id") VALUES ($1)`, "reviews"},
		{`UPDATE users SET email = $1`, "users"},
		{`SELECT reviews.*, users.email FROM reviews JOIN users ON users.id = reviews.user_id`, "reviews"},
		{`SELECT 1`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			assert.Equal(t, tt.want, StatementTable(tt.sql))
		})
	}
}

func TestGormLogger_Trace_WithRequestID(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)
	ctx := WithRequestID(context.Background(), "test-req-id")

	gl.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "test-req-id", logs[0].ContextMap()["request_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	tests := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"debug":   gormlogger.Info,
		"unknown": gormlogger.Warn,
		"":        gormlogger.Warn,
	}

	for level, expected := range tests {
		t.Run(level, func(t *testing.T) {
			assert.Equal(t, expected, MapGormLogLevel(level))
		})
	}
}
