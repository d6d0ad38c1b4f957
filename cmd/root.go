package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/selimacar/qrmenu/internal/config"
)

// Cfg holds the loaded configuration, shared by all subcommands.
var Cfg *config.Config

// RootCmd is the base command. Subcommands (run-server, migrate, seed,
// stats) register themselves via their own init() functions to avoid
// import cycles.
var RootCmd = &cobra.Command{
	Use:   "qrmenu",
	Short: "Digital restaurant menu platform",
	Long: `qrmenu serves QR-code restaurant menus with anonymous analytics,
guest reviews and an owner dashboard API.`,
}

// Execute runs the CLI. Called from main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Printf("Warning: Problem loading configuration: %v. Using default values.", err)
	}
}
