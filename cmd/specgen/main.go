package main

import (
	"os"

	"github.com/grovetools/devlog/cli"
	"github.com/grovetools/devlog/cmd"
)

func main() {
	rootCmd := cmd.NewSpecgenCmd()
	if err := rootCmd.Execute(); err != nil {
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		cli.NewErrorHandler(verbose).Handle(err)
		os.Exit(1)
	}
}
