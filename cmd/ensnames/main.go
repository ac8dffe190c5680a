// Package main is the entry point for the ensnames CLI.
package main

import (
	"os"

	"ens-name-tracker/cmd/ensnames/app"
)

func main() {
	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
