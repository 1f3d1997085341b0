package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

func handleSearchCommand(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: gamemeta search <query> [platform]")
		os.Exit(1)
	}
	query := args[0]
	platform := ""
	if len(args) > 1 {
		platform = args[1]
	}

	client := buildClient()
	defer closeClient(client)

	results := client.Search(ctx, query, platform, nil, 10)
	if len(results) == 0 {
		PrintInfo("No results for %q\n", query)
		return
	}

	if outputCfg.JSON {
		PrintResult(results)
		return
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		year := ""
		if r.ReleaseYear != 0 {
			year = strconv.Itoa(r.ReleaseYear)
		}
		rows = append(rows, []string{
			r.Name,
			r.Provider,
			strconv.Itoa(r.ProviderID),
			year,
			strings.Join(r.Platforms, ", "),
		})
	}
	PrintTable([]string{"Name", "Provider", "ID", "Year", "Platforms"}, rows)
}
