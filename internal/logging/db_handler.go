package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/moviemanager/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dbBatchSize = 50

// DBHandler is an slog.Handler that batches ERROR+ records into system_logs.
type DBHandler struct {
	db     *gorm.DB
	attrs  []slog.Attr
	shared *dbBuffer
}

type dbBuffer struct {
	mu     sync.Mutex
	buffer []models.SystemLog
	ticker *time.Ticker
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDBHandler(db *gorm.DB, interval time.Duration) *DBHandler {
	h := &DBHandler{
		db: db,
		shared: &dbBuffer{
			buffer: make([]models.SystemLog, 0, dbBatchSize),
			ticker: time.NewTicker(interval),
			done:   make(chan struct{}),
		},
	}
	h.shared.wg.Add(1)
	go h.flushLoop()
	return h
}

func (h *DBHandler) flushLoop() {
	defer h.shared.wg.Done()
	for {
		select {
		case <-h.shared.ticker.C:
			h.Flush()
		case <-h.shared.done:
			h.Flush()
			return
		}
	}
}

// Flush writes any buffered records immediately.
func (h *DBHandler) Flush() {
	b := h.shared
	b.mu.Lock()
	if len(b.buffer) == 0 {
		b.mu.Unlock()
		return
	}
	batch := b.buffer
	b.buffer = make([]models.SystemLog, 0, dbBatchSize)
	b.mu.Unlock()

	if err := h.db.CreateInBatches(batch, dbBatchSize).Error; err != nil {
		// the default logger may route back here; write to stdout only
		slog.New(slog.NewJSONHandler(stdout, nil)).Error("failed to flush system logs", "error", err, "count", len(batch))
	}
}

// Stop flushes what is left and ends the background loop.
func (h *DBHandler) Stop() {
	h.shared.once.Do(func() {
		h.shared.ticker.Stop()
		close(h.shared.done)
	})
	h.shared.wg.Wait()
}

// Enabled only handles ERROR and above.
func (h *DBHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelError
}

// Handle copies every string it keeps. Records sit in the buffer until the
// next flush and callers such as fiber hand out strings backed by reused
// request buffers.
func (h *DBHandler) Handle(_ context.Context, record slog.Record) error {
	entry := models.SystemLog{
		Timestamp: record.Time,
		Level:     record.Level.String(),
		Message:   strings.Clone(record.Message),
	}

	extra := make(map[string]any)
	apply := func(a slog.Attr) bool {
		value := strings.Clone(a.Value.String())
		switch a.Key {
		case "request_id":
			entry.RequestID = value
		case "user_id":
			entry.UserID = &value
		case "method":
			entry.Method = value
		case "path":
			entry.Path = value
		case "error":
			entry.Error = value
		default:
			if a.Value.Kind() == slog.KindString {
				extra[a.Key] = value
			} else {
				extra[a.Key] = a.Value.Any()
			}
		}
		return true
	}
	for _, a := range h.attrs {
		apply(a)
	}
	record.Attrs(apply)

	if len(extra) > 0 {
		if b, err := json.Marshal(extra); err == nil {
			entry.Extra = datatypes.JSON(b)
		}
	}

	b := h.shared
	b.mu.Lock()
	b.buffer = append(b.buffer, entry)
	needFlush := len(b.buffer) >= dbBatchSize
	b.mu.Unlock()

	if needFlush {
		go h.Flush()
	}
	return nil
}

func (h *DBHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &DBHandler{db: h.db, attrs: merged, shared: h.shared}
}

func (h *DBHandler) WithGroup(name string) slog.Handler {
	return h
}
