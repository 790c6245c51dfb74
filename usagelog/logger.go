// Package usagelog emits one structured usage record per logical request.
// Records go to a rotating log file as raw JSON lines; the shape is read by
// downstream cost-analysis tooling, so it is written directly rather than
// through a slog handler that would wrap it in time/level/msg fields.
package usagelog

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"

	"battleroyale/capacity"
)

// Logger finalizes and writes usage records.
type Logger struct {
	mu       sync.Mutex
	out      io.Writer
	region   string
	table    string
	archiver *S3Archiver
	now      func() time.Time
}

// FileConfig holds the rotation knobs for the usage log file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// NewFileLogger writes records to a rotating file.
func NewFileLogger(cfg FileConfig, region, table string) *Logger {
	w := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return NewLogger(w, region, table)
}

// NewLogger writes records to w.
func NewLogger(w io.Writer, region, table string) *Logger {
	return &Logger{out: w, region: region, table: table, now: time.Now}
}

// WithArchiver attaches an optional S3 archive sink.
func (l *Logger) WithArchiver(archiver *S3Archiver) *Logger {
	l.archiver = archiver
	return l
}

// Emit stamps the record with its identity fields (timestamp, module, actor,
// table, region, generated request id) and writes it as one JSON line.
// Emission is best effort: a write or archive failure is logged and the
// completed record is still returned to the caller.
func (l *Logger) Emit(ctx context.Context, module, userID string, rec capacity.Record) capacity.Record {
	rec.Timestamp = l.now().Format(time.RFC3339Nano)
	rec.Module = module
	rec.UserID = userID
	rec.Table = l.table
	rec.Region = l.region
	rec.RequestID = uuid.NewString()

	line, err := json.Marshal(rec)
	if err != nil {
		slog.Error("failed to marshal usage record", "error", err)
		return rec
	}

	l.mu.Lock()
	_, err = l.out.Write(append(line, '\n'))
	l.mu.Unlock()
	if err != nil {
		slog.Error("failed to write usage record", "error", err)
	}

	if l.archiver != nil {
		if err := l.archiver.Archive(ctx, rec, line); err != nil {
			slog.Warn("failed to archive usage record", "request_id", rec.RequestID, "error", err)
		}
	}

	return rec
}
