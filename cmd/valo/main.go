package main

import (
	"os"

	"github.com/dykim-quant/valo/cmd/valo/commands"
)

// main is the entry point for the valo CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/valo [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
