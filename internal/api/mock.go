// Package api provides a client for the group-management backend.
package api

import (
	"context"

	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/normalize"
	"github.com/ssewanyana/groupcal/internal/service"
)

// MockClient is a mock implementation of service.EventSource for testing.
type MockClient struct {
	// Functions that can be set by tests to control behavior
	FetchEventsFn        func(ctx context.Context, dateRange model.DateRange, hints service.FetchHints) ([]normalize.RawRecord, error)
	FetchFilterOptionsFn func(ctx context.Context) (*model.FilterOptions, error)

	// Call tracking
	FetchEventsCalls        []FetchEventsCall
	FetchFilterOptionsCalls int
}

// FetchEventsCall records the parameters of a FetchEvents call.
type FetchEventsCall struct {
	DateRange model.DateRange
	Hints     service.FetchHints
}

// NewMockClient creates a new mock backend client.
func NewMockClient() *MockClient {
	return &MockClient{
		FetchEventsCalls: []FetchEventsCall{},
	}
}

// FetchEvents implements service.EventSource.
func (m *MockClient) FetchEvents(ctx context.Context, dateRange model.DateRange, hints service.FetchHints) ([]normalize.RawRecord, error) {
	m.FetchEventsCalls = append(m.FetchEventsCalls, FetchEventsCall{
		DateRange: dateRange,
		Hints:     hints,
	})

	if m.FetchEventsFn != nil {
		return m.FetchEventsFn(ctx, dateRange, hints)
	}

	return []normalize.RawRecord{}, nil
}

// FetchFilterOptions implements service.EventSource.
func (m *MockClient) FetchFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	m.FetchFilterOptionsCalls++

	if m.FetchFilterOptionsFn != nil {
		return m.FetchFilterOptionsFn(ctx)
	}

	return &model.FilterOptions{}, nil
}
