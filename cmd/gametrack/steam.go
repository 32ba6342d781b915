package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trophyline/gametrack-go/pkg/steam"
)

func newSteamCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "steam",
		Short: "Query the Steam Web API",
	}

	cmd.AddCommand(newSteamGamesCommand())
	cmd.AddCommand(newSteamAchievementsCommand())
	cmd.AddCommand(newSteamResolveCommand())

	return cmd
}

func steamClient() (*steam.Client, error) {
	key, err := requireEnv("STEAM_API_KEY")
	if err != nil {
		return nil, err
	}
	return steam.NewClient(key, nil), nil
}

func newSteamGamesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "games <steam-id>",
		Short: "List a player's owned games",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := steamClient()
			if err != nil {
				return err
			}

			games, err := client.GetOwnedGames(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "APPID\tNAME\tPLAYTIME (h)")
			for _, g := range games.Games {
				fmt.Fprintf(w, "%d\t%s\t%.1f\n", g.AppID, g.Name, float64(g.PlaytimeForeverMinutes)/60)
			}
			return w.Flush()
		},
	}
}

func newSteamAchievementsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements <steam-id> <app-id>",
		Short: "Show a player's achievements for a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := steamClient()
			if err != nil {
				return err
			}

			appID, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid app id %q", args[1])
			}

			stats, err := client.GetPlayerAchievements(cmd.Context(), args[0], appID)
			if err != nil {
				return err
			}

			unlocked := 0
			for _, a := range stats.Achievements {
				if a.Achieved == 1 {
					unlocked++
				}
			}
			fmt.Printf("%s: %d/%d achievements unlocked\n", stats.GameName, unlocked, len(stats.Achievements))
			return nil
		},
	}
}

func newSteamResolveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <vanity-name>",
		Short: "Resolve a vanity URL name to a SteamID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := steamClient()
			if err != nil {
				return err
			}

			steamID, err := client.ResolveVanityURL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Println(steamID)
			return nil
		},
	}
}
