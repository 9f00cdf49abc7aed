package cli

// Test-only accessors for subcommands
var (
	CmdView  = cmdView
	CmdServe = cmdServe
)
