// gametrack is a command-line frontend for the platform clients. It is meant
// for smoke-testing credentials and quick lookups, not automation.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Credentials can live in a local .env file; absence is not an error.
	_ = godotenv.Load()

	root := newRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gametrack",
		Short: "Query gaming platform APIs",
		Long: `gametrack queries player profiles, game libraries, and achievement
progress across Steam, PlayStation Network, Xbox Live, and RetroAchievements.

Credentials are read from the environment (or a .env file):
  STEAM_API_KEY    Steam Web API key
  PSN_NPSSO        PlayStation NPSSO cookie value
  XBL_MS_TOKEN     Microsoft access token for Xbox Live
  RA_API_KEY       RetroAchievements Web API key`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newSteamCommand())
	cmd.AddCommand(newPSNCommand())
	cmd.AddCommand(newXblCommand())
	cmd.AddCommand(newRetroCommand())

	return cmd
}

// requireEnv fetches a credential or fails with a hint.
func requireEnv(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("%s is not set (export it or add it to .env)", name)
	}
	return value, nil
}
