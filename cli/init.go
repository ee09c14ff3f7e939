package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
)

const starterPlan = `{
  "accounts": [
    {
      "id": "checking",
      "name": "Checking",
      "initialBalance": "2500.00",
      "balanceAsOf": "2025-01-01"
    },
    {
      "id": "savings",
      "name": "Savings",
      "initialBalance": "10000.00",
      "balanceAsOf": "2025-01-01"
    }
  ],
  "transactions": [
    {
      "id": "salary",
      "description": "Monthly salary",
      "from": "checking",
      "to": "checking",
      "amount": "3200.00",
      "date": "2025-01-01",
      "recurrence": {"frequency": "monthly", "daysOfMonth": [1]}
    },
    {
      "id": "rent",
      "description": "Rent",
      "from": "checking",
      "to": "checking",
      "amount": "-1400.00",
      "date": "2025-01-03",
      "recurrence": {"frequency": "monthly", "daysOfMonth": [3]}
    },
    {
      "id": "sweep",
      "description": "Weekly savings sweep",
      "from": "checking",
      "to": "savings",
      "amount": "150.00",
      "date": "2025-01-06",
      "settlementDays": 1,
      "recurrence": {"frequency": "weekly", "daysOfWeek": [1]}
    }
  ]
}
`

type InitCmd struct {
	File  string `help:"Plan file to create." arg:""`
	Force bool   `help:"Overwrite an existing file without asking." short:"f"`
}

func (cmd *InitCmd) Run(ctx *kong.Context, globals *Globals) error {
	path, err := filepath.Abs(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if _, err := os.Stat(path); err == nil && !cmd.Force {
		confirmed, err := promptYesNo(fmt.Sprintf("File %q already exists. Overwrite it?", path))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			return fmt.Errorf("file already exists: %s", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(starterPlan), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Created starter plan: %s", pathStyle.Render(path)))
	printInfof(ctx.Stdout, "Run `cashflow forecast %s` to see the projection", cmd.File)

	return nil
}
