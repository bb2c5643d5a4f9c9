package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ssewanyana/groupcal/internal/calendar"
	"github.com/ssewanyana/groupcal/internal/config"
	"github.com/ssewanyana/groupcal/internal/filter"
	"github.com/ssewanyana/groupcal/internal/service"
	"github.com/ssewanyana/groupcal/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an activity report to Google Sheets",
		Long: `Build the filtered activity calendar from the local cache and write it
to a Google Spreadsheet.

Authentication uses either a service account key or OAuth2 refresh-token
credentials; see the sheets section of the config file.`,
		RunE: runExport,
	}

	cmd.Flags().String("title", "", "Report title")
	addFilterFlags(cmd)

	_ = viper.BindPFlag("export.title", cmd.Flags().Lookup("title"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	now := time.Now()

	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	sheetsConfig, err := config.LoadSheetsConfig()
	if err != nil {
		return fmt.Errorf("failed to load sheets configuration: %w", err)
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	events, err := store.GetEvents(ctx, eventQueryForCriteria(criteria, now))
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	// The export always covers the whole filtered window, so page size is
	// irrelevant; ascending buckets read naturally in a spreadsheet.
	builder := calendar.NewBuilder(calendar.Config{Ascending: true})
	vm, err := builder.BuildFromEvents(events, criteria, calendar.RangeSpec{Mode: calendar.ViewMonth, Anchor: now}, 1, now)
	if err != nil {
		return err
	}

	meta := service.ReportMeta{
		Title:         viper.GetString("export.title"),
		GeneratedAt:   now,
		ActiveFilters: vm.ActiveFilters,
	}
	if window, ok := filter.ResolveWindow(criteria, now, nil); ok {
		meta.PeriodStart = window.Start
		meta.PeriodEnd = window.End
	}

	writer, err := sheets.NewWriter(ctx, sheetsConfig, slog.Default().With("component", "sheets"))
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	if err := writer.Write(ctx, vm.Buckets, vm.Summary, meta); err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}

	slog.Info("Report exported", "events", vm.Summary.TotalEvents)
	return nil
}
