package main

import (
	"log/slog"
	"strings"

	"github.com/Veraticus/the-spice-must-recur/internal/api"
	"github.com/Veraticus/the-spice-must-recur/internal/common"
	"github.com/Veraticus/the-spice-must-recur/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve detection results over HTTP",
		Long: `Start an HTTP server exposing detection as JSON:

  GET /api/v1/presets
  GET /api/v1/candidates?preset=&now=YYYY-MM-DD
  GET /api/v1/savings?preset=&now=&id=...&id=...
  GET /healthz

Detection flags set the defaults used when a request names no preset.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	addDetectionFlags(cmd)
	cmd.Flags().String("addr", "", "listen address (default :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if f := cmd.Flags().Lookup("addr"); f.Changed {
		viper.Set(config.KeyServerAddr, f.Value.String())
	}
	addr := strings.TrimSpace(viper.GetString(config.KeyServerAddr))
	if addr == "" {
		return common.NewUserError("No listen address configured (set --addr or server.addr)", common.ErrMissingConfig)
	}

	defaults, err := detectionSettings(cmd)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	handler := api.NewHandler(store, defaults, nil)

	slog.Info("Starting API server", "addr", addr, "window_weeks", defaults.WindowWeeks)
	return api.Serve(ctx, addr, handler.Router())
}
