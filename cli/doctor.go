package cli

import (
	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/andrew-rosca/cashflow/plan"
)

type DoctorCmd struct {
	Dump DumpCmd `cmd:"" help:"Print the decoded plan as a Go value."`
}

type DumpCmd struct {
	File string `help:"Plan file to dump." arg:"" type:"existingfile"`
}

func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	p, err := plan.Load(cmd.File)
	if err != nil {
		renderPlanError(ctx.Stderr, err)
		exitWithError()
		return nil
	}

	repr.New(ctx.Stdout).Println(p)

	return nil
}
