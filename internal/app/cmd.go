package app

// Command selects the application start mode.
type Command string

const (
	// CommandServe starts the API server.
	CommandServe Command = "serve"
	// CommandMigrate applies pending database migrations.
	CommandMigrate Command = "migrate"
	// CommandHealthcheck probes the local API server.
	// Used as the Docker healthcheck in distroless images.
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand picks the subcommand from the argument list. An empty
// or unknown argument means serve.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
