package storage

import (
	"context"
	"fmt"

	"github.com/ssewanyana/groupcal/internal/model"
)

// validateContext ensures the context is usable.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return fmt.Errorf("context must not be nil")
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	return nil
}

// validateString ensures a required string parameter is non-empty.
func validateString(value, name string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", name)
	}
	return nil
}

// validateEvents ensures every event carries the fields the cache requires.
// The normalizer guarantees these for records it emits; this guards direct
// callers.
func validateEvents(events []model.CalendarEvent) error {
	for i, e := range events {
		if e.ID == "" {
			return fmt.Errorf("event at index %d has empty id", i)
		}
		if e.Type == "" {
			return fmt.Errorf("event %s has empty type", e.ID)
		}
		if e.Date.IsZero() {
			return fmt.Errorf("event %s has zero date", e.ID)
		}
	}
	return nil
}
