package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ssewanyana/groupcal/internal/api"
	"github.com/ssewanyana/groupcal/internal/common"
	"github.com/ssewanyana/groupcal/internal/config"
	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/normalize"
	"github.com/ssewanyana/groupcal/internal/service"
	"github.com/ssewanyana/groupcal/internal/storage"
)

func syncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync events from the group service",
		Long: `Fetch activity events and filter catalogs from the group-management
service into the local cache.

Records that cannot be normalized (missing id, kind, or date) are dropped
and counted; a bad record never aborts the sync.`,
		RunE: runSync,
	}

	cmd.Flags().StringP("start-date", "s", "", "Start date for the sync window (format: 2006-01-02)")
	cmd.Flags().StringP("end-date", "e", "", "End date for the sync window (format: 2006-01-02)")
	cmd.Flags().IntP("days", "d", 90, "Number of days to sync (used if start/end dates not specified)")
	cmd.Flags().StringSlice("groups", []string{}, "Limit the sync to specific group IDs (comma-separated)")
	cmd.Flags().Bool("dry-run", false, "Fetch and normalize without saving")

	_ = viper.BindPFlag("sync.start_date", cmd.Flags().Lookup("start-date"))
	_ = viper.BindPFlag("sync.end_date", cmd.Flags().Lookup("end-date"))
	_ = viper.BindPFlag("sync.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("sync.groups", cmd.Flags().Lookup("groups"))
	_ = viper.BindPFlag("sync.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	apiConfig, err := config.LoadAPIConfig()
	if err != nil {
		return fmt.Errorf("failed to load API configuration: %w", err)
	}
	client, err := api.NewClient(apiConfig)
	if err != nil {
		return fmt.Errorf("failed to create API client: %w", err)
	}

	dateRange, err := resolveSyncRange()
	if err != nil {
		return err
	}

	slog.Info("Syncing activity feed",
		"start", dateRange.Start.Format("2006-01-02"),
		"end", dateRange.End.Format("2006-01-02"))

	hints := service.FetchHints{GroupIDs: viper.GetStringSlice("sync.groups")}
	records, err := client.FetchEvents(ctx, dateRange, hints)
	if err != nil {
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	events, dropped := normalize.Feed(records)
	slog.Info("Normalized feed", "fetched", len(records), "kept", len(events), "dropped", dropped)

	if viper.GetBool("sync.dry_run") {
		slog.Info("Dry run, nothing saved")
		return nil
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	run := &storage.SyncRun{
		ID:         uuid.NewString(),
		StartedAt:  time.Now(),
		RangeStart: dateRange.Start,
		RangeEnd:   dateRange.End,
		Fetched:    len(records),
		Dropped:    dropped,
	}

	// Save in batches so the bar reflects real progress on large windows.
	const batchSize = 200
	bar := progressbar.Default(int64(len(events)), "Saving events")
	for start := 0; start < len(events); start += batchSize {
		end := start + batchSize
		if end > len(events) {
			end = len(events)
		}
		if err := store.SaveEvents(ctx, events[start:end]); err != nil {
			return fmt.Errorf("failed to save events: %w", err)
		}
		_ = bar.Add(end - start)
	}
	_ = bar.Finish()

	options, err := client.FetchFilterOptions(ctx)
	if err != nil {
		// The calendar still works off a stale catalog; don't fail the sync.
		slog.Warn("Failed to refresh filter options", "error", err)
	} else if err := store.SaveFilterOptions(ctx, options); err != nil {
		return fmt.Errorf("failed to save filter options: %w", err)
	}

	run.FinishedAt = time.Now()
	if err := store.SaveSyncRun(ctx, run); err != nil {
		return fmt.Errorf("failed to record sync run: %w", err)
	}

	common.LogInfo("Sync complete", common.Fields{
		"run_id":  run.ID,
		"events":  len(events),
		"dropped": dropped,
	})
	return nil
}

func resolveSyncRange() (model.DateRange, error) {
	startStr := viper.GetString("sync.start_date")
	endStr := viper.GetString("sync.end_date")

	if startStr != "" || endStr != "" {
		if startStr == "" || endStr == "" {
			return model.DateRange{}, fmt.Errorf("both --start-date and --end-date must be set")
		}
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid start date: %w", err)
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			return model.DateRange{}, fmt.Errorf("invalid end date: %w", err)
		}
		if start.After(end) {
			return model.DateRange{}, fmt.Errorf("start date is after end date")
		}
		return model.DateRange{Start: start, End: end}, nil
	}

	days := viper.GetInt("sync.days")
	if days <= 0 {
		days = 90
	}
	end := time.Now()
	return model.DateRange{Start: end.AddDate(0, 0, -days), End: end}, nil
}
