package cmd

import (
	"fmt"
	"github.com/ValentinKolb/shellstate/cmd/run"
	"github.com/spf13/cobra"
	"os"
)

const (
	Version = "0.3.1"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "shellstate",
		Short: "scoped mutation of process working directory and environment",
		Long: fmt.Sprintf(`shellstate (v%s)

A library and CLI for scoped, crash-safe mutation of process-wide
state: temporarily change the working directory or environment
variables, run something, and get the prior state back - guaranteed.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of shellstate",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shellstate v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(run.RunCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
