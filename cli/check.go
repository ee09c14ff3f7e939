package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/andrew-rosca/cashflow/plan"
	"github.com/andrew-rosca/cashflow/telemetry"
)

type CheckCmd struct {
	File string `help:"Plan file to validate." arg:"" type:"existingfile"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	var collector telemetry.Collector
	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr)
		}()
	}

	timer := telemetry.FromContext(runCtx).Start(fmt.Sprintf("check %s", filepath.Base(cmd.File)))
	p, err := plan.Load(cmd.File)
	timer.End()

	if err != nil {
		renderPlanError(ctx.Stderr, err)
		exitWithError()
		return nil
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed: %d account(s), %d transaction(s)",
		len(p.Accounts), len(p.Transactions)))

	return nil
}
