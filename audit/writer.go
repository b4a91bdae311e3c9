package audit

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Store persists audit records. Insert must use its own transaction.
type Store interface {
	Insert(ctx context.Context, record *Record) error
}

// Writer persists committed intents. Failures are logged and dropped.
type Writer struct {
	store   Store
	log     logrus.FieldLogger
	metrics *Metrics
}

// NewWriter creates a Writer
func NewWriter(store Store, log logrus.FieldLogger, metrics *Metrics) *Writer {
	return &Writer{store: store, log: log, metrics: metrics}
}

// Write stores one intent. It never returns an error and never retries.
func (w *Writer) Write(ctx context.Context, intent Intent) {
	defer func() {
		if r := recover(); r != nil {
			w.log.WithFields(intentFields(intent)).WithField("panic", fmt.Sprint(r)).
				Error("Audit writer panicked, record dropped")
			w.metrics.incWriteFailures()
		}
	}()

	record := NewRecord(intent)
	if err := w.store.Insert(ctx, record); err != nil {
		w.log.WithFields(intentFields(intent)).WithError(err).Error("Failed to write audit record")
		w.metrics.incWriteFailures()
		return
	}

	w.metrics.incWritten()
	w.log.WithFields(intentFields(intent)).WithField("record_id", record.ID).Debug("Audit record written")
}
