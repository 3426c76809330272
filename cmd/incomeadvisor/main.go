package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/vijay-prabhu/incomeadvisor/internal/cli"
)

// Version information (set by build script)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	// A .env file in the working directory may supply INCOMEADVISOR_* overrides
	_ = godotenv.Load()

	cli.SetVersionInfo(Version, Commit, BuildTime)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
