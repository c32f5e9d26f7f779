package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use: "archiver-api",
}

func init() {
	rootCmd.AddCommand(runCmd)
}
