package main

import (
	"os"

	"github.com/harrison/important/internal/cmd"
)

func main() {
	rootCmd := cmd.NewRootCommand()
	os.Exit(cmd.Execute(rootCmd, os.Stderr))
}
