package main

import (
	"os"

	"cosmossdk.io/log"

	"github.com/openalpha/hedge-vault/cmd/vaultd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		log.NewLogger(os.Stderr).Error("failure when running vaultd", "err", err)
		os.Exit(1)
	}
}
