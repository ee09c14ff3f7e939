package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Telemetry bool `help:"Show timing telemetry for operations."`
}

type Commands struct {
	Globals

	Check    CheckCmd    `cmd:"" help:"Load and validate a plan file."`
	Forecast ForecastCmd `cmd:"" help:"Project account balances over a window and render them as a table."`
	Init     InitCmd     `cmd:"" help:"Write a starter plan file."`
	Doctor   DoctorCmd   `cmd:"" help:"Doctor utilities for debugging plan files."`
	Web      WebCmd      `cmd:"" help:"Start a web server serving the forecast as JSON."`
}
