package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/ssewanyana/groupcal/internal/config"
	"github.com/ssewanyana/groupcal/internal/filter"
	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/service"
	"github.com/ssewanyana/groupcal/internal/storage"
)

// openStorage opens the event cache at the configured path and brings the
// schema up to date.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = config.DefaultDatabasePath()
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// eventQueryForCriteria pre-narrows the cache read with the criteria's
// resolved time window. The predicate engine still re-checks every
// dimension on the result.
func eventQueryForCriteria(c model.FilterCriteria, now time.Time) service.EventQuery {
	q := service.EventQuery{}
	if window, ok := filter.ResolveWindow(c, now, nil); ok {
		start := window.Start.AddDate(0, 0, -1)
		end := window.End.AddDate(0, 0, 2)
		q.StartDate = &start
		q.EndDate = &end
	}
	return q
}
