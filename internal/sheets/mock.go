package sheets

import (
	"context"

	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/service"
)

// MockWriter is a mock implementation of service.ReportWriter for testing.
type MockWriter struct {
	// WriteFn can be set by tests to control behavior
	WriteFn func(ctx context.Context, buckets []model.DateBucket, summary model.FilterSummary, meta service.ReportMeta) error

	// Call tracking
	WriteCalls []WriteCall
}

// WriteCall records the parameters of a Write call.
type WriteCall struct {
	Buckets []model.DateBucket
	Summary model.FilterSummary
	Meta    service.ReportMeta
}

// NewMockWriter creates a new mock report writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: []WriteCall{},
	}
}

// Write implements service.ReportWriter.
func (m *MockWriter) Write(ctx context.Context, buckets []model.DateBucket, summary model.FilterSummary, meta service.ReportMeta) error {
	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Buckets: buckets,
		Summary: summary,
		Meta:    meta,
	})

	if m.WriteFn != nil {
		return m.WriteFn(ctx, buckets, summary, meta)
	}

	return nil
}
