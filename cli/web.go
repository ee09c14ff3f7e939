package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/andrew-rosca/cashflow/telemetry"
	"github.com/andrew-rosca/cashflow/web"
)

type WebCmd struct {
	File  string `help:"Plan file to serve." arg:"" type:"existingfile"`
	Port  int    `help:"Port to listen on." default:"8080"`
	Watch bool   `help:"Reload the plan when the file changes on disk." short:"w"`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	planFile, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	version := Version
	if version == "" {
		version = "dev"
	}

	server := web.New(cmd.Port, planFile)
	server.Version = version
	server.WatchEnabled = cmd.Watch

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	printInfof(ctx.Stdout, "Serving plan: %s", pathStyle.Render(planFile))

	if cmd.Watch {
		printInfof(ctx.Stdout, "Watching for plan changes")
	}

	return server.Start(runCtx)
}
