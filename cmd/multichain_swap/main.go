package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "multichain_swap",
	Short: "Multichain swap page backend",
	Long: "Serves the page state of the multichain swap front end: wallet connection, " +
		"network selection, theme and modal state, token selection and prices.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config/config.yml", "path to the YAML configuration file")
	rootCmd.AddCommand(serveCmd, networksCmd, walletsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
