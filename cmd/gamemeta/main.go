package main

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/baggage"

	"github.com/ryanm101/gamemeta/config"
	"github.com/ryanm101/gamemeta/logging"
	"github.com/ryanm101/gamemeta/tracing"
)

var cfg *config.Config

func main() {
	ctx := context.Background()

	// Set global baggage
	m, _ := baggage.NewMember("app.version", "1.0.0")
	b, _ := baggage.New(m)
	ctx = baggage.ContextWithBaggage(ctx, b)

	// Load config
	var err error
	cfg, err = config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	// Setup Logging
	logging.Setup(logging.Config{
		Format: cfg.Logging.Format,
		Level:  cfg.Logging.Level,
	})

	// Setup Tracing
	shutdown, err := tracing.Setup(ctx, tracing.DefaultConfig())
	if err != nil {
		logging.Error("failed to setup tracing", "error", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logging.Error("failed to shutdown tracing", "error", err)
		}
	}()

	// Parse global flags (--json, --quiet)
	args := parseGlobalFlags(os.Args[1:])

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	switch args[0] {
	case "identify":
		handleIdentifyCommand(ctx, args[1:])
	case "search":
		handleSearchCommand(ctx, args[1:])
	case "hash":
		handleHashCommand(ctx, args[1:])
	case "parse":
		handleParseCommand(ctx, args[1:])
	case "get":
		handleGetCommand(ctx, args[1:])
	case "platforms":
		handlePlatformsCommand(ctx, args[1:])
	case "heartbeat":
		handleHeartbeatCommand(ctx, args[1:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("gamemeta - game identification and metadata")
	fmt.Println()
	fmt.Println("Usage: gamemeta [global options] <command> [options]")
	fmt.Println()
	fmt.Println("Global Options:")
	fmt.Println("  --json                              Output in JSON format")
	fmt.Println("  --quiet, -q                         Suppress non-error output")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  identify <file> <platform>          Identify a ROM file")
	fmt.Println("    --first-match                     Take the first match instead of")
	fmt.Println("                                      requiring an unambiguous one")
	fmt.Println("    --no-hash                         Skip hashing, match by name only")
	fmt.Println("  search <query> <platform>           Search providers by name")
	fmt.Println("  get <provider> <id>                 Fetch a game by provider ID")
	fmt.Println("  hash <file>                         Print MD5/SHA1/CRC32 of a file")
	fmt.Println("  parse <filename>                    Parse tags from a ROM filename")
	fmt.Println("  platforms <provider>                List platform slugs for a provider")
	fmt.Println("  heartbeat                           Check provider connectivity")
	fmt.Println("  help                                Show this help")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  GAMEMETA_CONFIG                     Config file path")
	fmt.Println("  GAMEMETA_CACHE                     SQLite cache path")
	fmt.Println("  GAMEMETA_LOG_LEVEL                  Log level override")
}
