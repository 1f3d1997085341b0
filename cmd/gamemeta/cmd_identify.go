package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ryanm101/gamemeta/hashing"
	"github.com/ryanm101/gamemeta/metadata"
)

func handleIdentifyCommand(ctx context.Context, args []string) {
	var (
		firstMatch bool
		noHash     bool
		positional []string
	)
	for _, arg := range args {
		switch arg {
		case "--first-match":
			firstMatch = true
		case "--no-hash":
			noHash = true
		default:
			positional = append(positional, arg)
		}
	}

	if len(positional) < 2 {
		fmt.Println("Usage: gamemeta identify <file> <platform> [--first-match] [--no-hash]")
		os.Exit(1)
	}
	path, platform := positional[0], positional[1]

	var hashes hashing.FileHashes
	if !noHash {
		var err error
		hashes, err = hashing.Calculate(path)
		if err != nil {
			// A missing file can still be identified by name.
			PrintInfo("Could not hash %s (%v), matching by name only\n", path, err)
			hashes = hashing.FileHashes{}
		}
	}

	client := buildClient()
	defer closeClient(client)

	result := client.IdentifySmart(ctx, filepath.Base(path), platform, hashes, metadata.IdentifyOptions{
		FirstMatch: firstMatch,
	})
	if result == nil {
		PrintError("No match found for %s\n", filepath.Base(path))
		os.Exit(1)
	}

	printGameResult(result)
}

func handleGetCommand(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Println("Usage: gamemeta get <provider> <id>")
		os.Exit(1)
	}

	var id int
	if _, err := fmt.Sscanf(args[1], "%d", &id); err != nil {
		PrintError("Error: invalid game id: %s\n", args[1])
		os.Exit(1)
	}

	client := buildClient()
	defer closeClient(client)

	result, err := client.GetByID(ctx, args[0], id)
	if err != nil {
		PrintError("Error: %v\n", err)
		os.Exit(1)
	}
	if result == nil {
		PrintError("Game %d not found on %s\n", id, args[0])
		os.Exit(1)
	}

	printGameResult(result)
}

func handleHeartbeatCommand(ctx context.Context, _ []string) {
	client := buildClient()
	defer closeClient(client)

	status := client.Heartbeat(ctx)
	if len(status) == 0 {
		PrintError("No providers configured\n")
		os.Exit(1)
	}

	rows := make([][]string, 0, len(status))
	for _, name := range client.Providers() {
		state := "ok"
		if !status[name] {
			state = "unreachable"
		}
		rows = append(rows, []string{name, state})
	}
	PrintTable([]string{"Provider", "Status"}, rows)
}

func printGameResult(g *metadata.GameResult) {
	if outputCfg.JSON {
		PrintResult(g)
		return
	}

	fmt.Printf("Name:      %s\n", g.Name)
	fmt.Printf("Provider:  %s (id %d)\n", g.Provider, g.ProviderID)
	if g.MatchType != "" {
		fmt.Printf("Match:     %s", g.MatchType)
		if g.MatchScore > 0 {
			fmt.Printf(" (score %.2f)", g.MatchScore)
		}
		fmt.Println()
	}
	if g.Metadata.ReleaseYear != 0 {
		fmt.Printf("Released:  %d\n", g.Metadata.ReleaseYear)
	}
	if g.Metadata.Developer != "" {
		fmt.Printf("Developer: %s\n", g.Metadata.Developer)
	}
	if g.Metadata.Publisher != "" {
		fmt.Printf("Publisher: %s\n", g.Metadata.Publisher)
	}
	if len(g.Metadata.Genres) > 0 {
		fmt.Printf("Genres:    %v\n", g.Metadata.Genres)
	}
	if g.Summary != "" {
		fmt.Printf("Summary:   %s\n", g.Summary)
	}
	if g.CoverURL() != "" {
		fmt.Printf("Cover:     %s\n", g.CoverURL())
	}
}
