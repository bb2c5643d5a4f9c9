package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ssewanyana/groupcal/internal/calendar"
	"github.com/ssewanyana/groupcal/internal/model"
)

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show the activity calendar",
		Long: `Build and print the filtered activity calendar from the local cache.

All filter dimensions of the web UI are available as flags; unset flags
stay unconstrained.`,
		RunE: runCalendar,
	}

	cmd.Flags().String("view", "month", "View mode (day, week, month)")
	cmd.Flags().String("anchor", "", "Anchor date for the view (format: 2006-01-02, default today)")
	cmd.Flags().IntP("page", "p", 1, "Page of the event list to show")
	cmd.Flags().Int("page-size", calendar.DefaultPageSize, "Events per page")

	addFilterFlags(cmd)

	_ = viper.BindPFlag("calendar.view", cmd.Flags().Lookup("view"))
	_ = viper.BindPFlag("calendar.anchor", cmd.Flags().Lookup("anchor"))
	_ = viper.BindPFlag("calendar.page", cmd.Flags().Lookup("page"))
	_ = viper.BindPFlag("calendar.page_size", cmd.Flags().Lookup("page-size"))

	return cmd
}

// addFilterFlags registers the shared criteria flags used by the calendar
// and export commands.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("period", "", "Time period (today, this_week, this_month, last_month, custom)")
	cmd.Flags().String("from", "", "Custom period start date (format: 2006-01-02)")
	cmd.Flags().String("to", "", "Custom period end date (format: 2006-01-02)")
	cmd.Flags().String("region", "", "Filter by region")
	cmd.Flags().String("district", "", "Filter by district")
	cmd.Flags().String("parish", "", "Filter by parish")
	cmd.Flags().String("village", "", "Filter by village")
	cmd.Flags().String("gender", "", "Filter by member gender (F, M, OTHER)")
	cmd.Flags().StringSlice("roles", []string{}, "Filter by member roles (comma-separated)")
	cmd.Flags().StringSlice("fund-types", []string{}, "Filter by fund types (comma-separated)")
	cmd.Flags().StringSlice("event-types", []string{}, "Filter by event types (comma-separated)")
	cmd.Flags().StringSlice("groups", []string{}, "Filter by group IDs (comma-separated)")
	cmd.Flags().Int64("amount-min", -1, "Minimum amount, inclusive")
	cmd.Flags().Int64("amount-max", -1, "Maximum amount, inclusive")
	cmd.Flags().String("verification", "", "Filter by verification status (PENDING, VERIFIED, REJECTED)")
}

// criteriaFromFlags assembles criteria from the shared filter flags.
func criteriaFromFlags(cmd *cobra.Command) (model.FilterCriteria, error) {
	c := model.DefaultCriteria()
	flags := cmd.Flags()

	if v, _ := flags.GetString("period"); v != "" {
		switch model.TimePeriod(v) {
		case model.PeriodToday, model.PeriodThisWeek, model.PeriodThisMonth, model.PeriodLastMonth, model.PeriodCustom:
			c.Period = model.TimePeriod(v)
		default:
			return c, fmt.Errorf("unknown --period %q", v)
		}
	}
	if v, _ := flags.GetString("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c, fmt.Errorf("invalid --from date: %w", err)
		}
		c.StartDate = &t
	}
	if v, _ := flags.GetString("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c, fmt.Errorf("invalid --to date: %w", err)
		}
		c.EndDate = &t
	}
	if v, _ := flags.GetString("region"); v != "" {
		c.Region = v
	}
	if v, _ := flags.GetString("district"); v != "" {
		c.District = v
	}
	if v, _ := flags.GetString("parish"); v != "" {
		c.Parish = v
	}
	if v, _ := flags.GetString("village"); v != "" {
		c.Village = v
	}
	if v, _ := flags.GetString("gender"); v != "" {
		c.Gender = strings.ToUpper(v)
	}
	if v, _ := flags.GetString("verification"); v != "" {
		c.Verification = strings.ToUpper(v)
	}

	roles, _ := flags.GetStringSlice("roles")
	c.Roles = model.Select(roles...)
	groups, _ := flags.GetStringSlice("groups")
	c.GroupIDs = model.Select(groups...)

	if fundValues, _ := flags.GetStringSlice("fund-types"); len(fundValues) > 0 {
		funds := make([]model.FundType, len(fundValues))
		for i, v := range fundValues {
			funds[i] = model.FundType(strings.ToUpper(v))
		}
		c.FundTypes = model.SelectFrom(model.AllFundTypes, funds...)
	}
	if typeValues, _ := flags.GetStringSlice("event-types"); len(typeValues) > 0 {
		types := make([]model.EventType, len(typeValues))
		for i, v := range typeValues {
			types[i] = model.EventType(strings.ToUpper(v))
		}
		c.EventTypes = model.SelectFrom(model.AllEventTypes, types...)
	}

	if v, _ := flags.GetInt64("amount-min"); v >= 0 {
		c.AmountMin = &v
	}
	if v, _ := flags.GetInt64("amount-max"); v >= 0 {
		c.AmountMax = &v
	}

	return c, nil
}

func runCalendar(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	now := time.Now()

	criteria, err := criteriaFromFlags(cmd)
	if err != nil {
		return err
	}

	spec := calendar.RangeSpec{Mode: calendar.ViewMode(viper.GetString("calendar.view")), Anchor: now}
	if v := viper.GetString("calendar.anchor"); v != "" {
		anchor, err := time.Parse("2006-01-02", v)
		if err != nil {
			return fmt.Errorf("invalid --anchor date: %w", err)
		}
		spec.Anchor = anchor
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

	builder := calendar.NewBuilder(calendar.Config{PageSize: viper.GetInt("calendar.page_size")})
	vm, err := builder.BuildFromEvents(events, criteria, spec, viper.GetInt("calendar.page"), now)
	if err != nil {
		return err
	}

	printCalendar(vm)
	return nil
}

func printCalendar(vm *calendar.ViewModel) {
	fmt.Printf("Events: %d   Amount: %d   Active filters: %d\n",
		vm.Summary.TotalEvents, vm.Summary.TotalAmount, vm.ActiveFilters)
	for _, t := range model.AllEventTypes {
		if count, ok := vm.Summary.EventTypeBreakdown[t]; ok {
			fmt.Printf("  %-12s %d\n", t, count)
		}
	}

	if vm.Summary.TotalEvents == 0 {
		fmt.Println("\nNo events match the current filters.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, bucket := range vm.Buckets {
		fmt.Fprintf(w, "\n%s\n", bucket.Date.Format("Monday, 02 January 2006"))
		for _, e := range bucket.Events {
			amount := "-"
			if e.Amount != nil {
				amount = fmt.Sprintf("%d", *e.Amount)
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
				e.Type, e.Title, e.GroupName, amount, e.Verification)
		}
	}
	_ = w.Flush()

	if vm.Page.TotalPages > 1 {
		fmt.Printf("\nPage %d of %d (%d-%d of %d events)\n",
			vm.Page.PageNumber, vm.Page.TotalPages,
			vm.Page.StartIndex, vm.Page.EndIndex, vm.Page.TotalCount)
	}
}
