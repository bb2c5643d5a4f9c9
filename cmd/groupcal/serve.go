package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ssewanyana/groupcal/internal/calendar"
	"github.com/ssewanyana/groupcal/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar API",
		Long: `Serve the JSON calendar API consumed by the web UI.

Events are read from the local cache; run 'groupcal sync' first (or on a
schedule) to keep the cache current.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "Listen address")
	cmd.Flags().Int("page-size", calendar.DefaultPageSize, "Events per page")
	cmd.Flags().String("timezone", "UTC", "Timezone used for day bucketing")

	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.page_size", cmd.Flags().Lookup("page-size"))
	_ = viper.BindPFlag("server.timezone", cmd.Flags().Lookup("timezone"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	loc, err := time.LoadLocation(viper.GetString("server.timezone"))
	if err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	builder := calendar.NewBuilder(calendar.Config{
		PageSize: viper.GetInt("server.page_size"),
		Location: loc,
	})

	cfg := server.DefaultConfig()
	if addr := viper.GetString("server.addr"); addr != "" {
		cfg.Addr = addr
	}

	srv := server.New(cfg, store, builder, nil)
	return srv.ListenAndServe(ctx)
}
