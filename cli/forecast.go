package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/andrew-rosca/cashflow/calendar"
	"github.com/andrew-rosca/cashflow/forecast"
	"github.com/andrew-rosca/cashflow/plan"
	"github.com/andrew-rosca/cashflow/telemetry"
)

type ForecastCmd struct {
	File       string   `help:"Plan file to project." arg:"" type:"existingfile"`
	From       string   `help:"Window start (YYYY-MM-DD). Defaults to the plan's earliest balance-as-of date."`
	To         string   `help:"Window end (YYYY-MM-DD). Defaults to --days after the window start."`
	Days       int      `help:"Window length in days when --to is not given." default:"90"`
	Accounts   []string `help:"Account ids to include (default: all)."`
	Collapse   bool     `help:"Only show days on which a balance changed." short:"c"`
	DangerOnly bool     `help:"Only show days on which an account is at or below zero."`
}

func (cmd *ForecastCmd) Run(ctx *kong.Context, globals *Globals) error {
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

	timer := telemetry.FromContext(runCtx).Start(fmt.Sprintf("forecast %s", filepath.Base(cmd.File)))
	defer timer.End()

	loadTimer := timer.Child("load plan")
	p, err := plan.Load(cmd.File)
	loadTimer.End()
	if err != nil {
		renderPlanError(ctx.Stderr, err)
		exitWithError()
		return nil
	}

	start, end, ok := p.Window(cmd.Days)
	if !ok {
		return fmt.Errorf("plan has no accounts to project")
	}
	if cmd.From != "" {
		if start, err = calendar.Parse(cmd.From); err != nil {
			return err
		}
		if cmd.To == "" {
			end = start.AddDays(cmd.Days)
		}
	}
	if cmd.To != "" {
		if end, err = calendar.Parse(cmd.To); err != nil {
			return err
		}
	}

	accounts := p.Accounts
	if len(cmd.Accounts) > 0 {
		accounts = nil
		for _, id := range cmd.Accounts {
			account, ok := p.Account(id)
			if !ok {
				return fmt.Errorf("unknown account %q", id)
			}
			accounts = append(accounts, account)
		}
	}

	projectTimer := timer.Child("project")
	projection, err := forecast.Project(accounts, p.Transactions, start, end)
	projectTimer.End()
	if err != nil {
		return err
	}

	printInfof(ctx.Stdout, "Forecast %s to %s", start, end)
	_, _ = fmt.Fprintln(ctx.Stdout)

	renderTimer := timer.Child("render table")
	rows := renderForecast(ctx.Stdout, accounts, projection, cmd.Collapse, cmd.DangerOnly)
	renderTimer.End()

	if rows == 0 {
		printInfof(ctx.Stdout, "No days matched the current filters")
	}
	if projection.Truncated {
		_, _ = fmt.Fprintln(ctx.Stdout)
		printWarning(ctx.Stdout, "recurrence expansion was truncated; occurrences near the end of the window may be missing")
	}

	return nil
}
