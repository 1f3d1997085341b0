package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ryanm101/gamemeta/hashing"
)

func handleHashCommand(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: gamemeta hash <file>")
		os.Exit(1)
	}

	hashes, err := hashing.Calculate(args[0])
	if err != nil {
		PrintError("Error: failed to hash %s: %v\n", args[0], err)
		os.Exit(1)
	}

	if outputCfg.JSON {
		PrintResult(hashes)
		return
	}

	fmt.Printf("MD5:   %s\n", hashes.MD5)
	fmt.Printf("SHA1:  %s\n", hashes.SHA1)
	fmt.Printf("CRC32: %s\n", hashes.CRC32)
	fmt.Printf("Size:  %d\n", hashes.Size)
}
