package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ryanm101/gamemeta/filename"
	"github.com/ryanm101/gamemeta/platforms"
)

func handleParseCommand(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: gamemeta parse <filename>")
		os.Exit(1)
	}
	name := args[0]

	parsed := filename.ParseNoIntro(name)

	if outputCfg.JSON {
		PrintResult(map[string]interface{}{
			"name":       parsed.Name,
			"region":     parsed.Region,
			"version":    parsed.Version,
			"languages":  parsed.Languages,
			"extension":  parsed.Extension,
			"tags":       parsed.Tags,
			"bios":       filename.IsBIOS(name),
			"demo":       filename.IsDemo(name),
			"unlicensed": filename.IsUnlicensed(name),
		})
		return
	}

	fmt.Printf("Name:      %s\n", parsed.Name)
	if parsed.Region != "" {
		fmt.Printf("Region:    %s\n", parsed.Region)
	}
	if parsed.Version != "" {
		fmt.Printf("Version:   %s\n", parsed.Version)
	}
	if len(parsed.Languages) > 0 {
		fmt.Printf("Languages: %s\n", strings.Join(parsed.Languages, ", "))
	}
	if parsed.Extension != "" {
		fmt.Printf("Extension: %s\n", parsed.Extension)
	}
	if len(parsed.Tags) > 0 {
		fmt.Printf("Tags:      %s\n", strings.Join(parsed.Tags, ", "))
	}
	if filename.IsBIOS(name) {
		fmt.Println("BIOS:      yes")
	}
	if filename.IsDemo(name) {
		fmt.Println("Demo:      yes")
	}
	if filename.IsUnlicensed(name) {
		fmt.Println("Unlicensed: yes")
	}
}

func handlePlatformsCommand(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: gamemeta platforms <provider>")
		os.Exit(1)
	}

	slugs := platforms.Slugs(args[0])
	if len(slugs) == 0 {
		PrintError("Unknown provider: %s\n", args[0])
		os.Exit(1)
	}

	sort.Strings(slugs)
	PrintResult(slugs)
}
