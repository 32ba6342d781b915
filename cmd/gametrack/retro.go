package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trophyline/gametrack-go/pkg/retroachievements"
)

func newRetroCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retro",
		Short: "Query the RetroAchievements Web API",
	}

	cmd.AddCommand(newRetroProfileCommand())
	cmd.AddCommand(newRetroRecentCommand())
	cmd.AddCommand(newRetroProgressCommand())

	return cmd
}

func retroClient() (*retroachievements.Client, error) {
	key, err := requireEnv("RA_API_KEY")
	if err != nil {
		return nil, err
	}
	return retroachievements.NewClient(key, nil)
}

func newRetroProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <username>",
		Short: "Show a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := retroClient()
			if err != nil {
				return err
			}

			profile, err := client.GetUserProfile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("User:   %s\n", profile.User)
			fmt.Printf("Points: %d\n", profile.TotalPoints.Int())
			if profile.MemberSince.Valid {
				fmt.Printf("Member since: %s\n", profile.MemberSince.Time.Format("2006-01-02"))
			}
			return nil
		},
	}
}

func newRetroRecentCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "recent <username>",
		Short: "List recently played games",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := retroClient()
			if err != nil {
				return err
			}

			games, err := client.GetUserRecentlyPlayedGames(cmd.Context(), args[0], count, 0)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "GAME\tCONSOLE\tACHIEVED\tLAST PLAYED")
			for _, g := range games {
				lastPlayed := "-"
				if g.LastPlayed.Valid {
					lastPlayed = g.LastPlayed.Time.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\n", g.Title, g.ConsoleName,
					g.NumAchieved.Int(), g.NumPossibleAchievements.Int(), lastPlayed)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&count, "count", 10, "number of games to fetch")
	return cmd
}

func newRetroProgressCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <username> <game-id>",
		Short: "Show a user's achievement progress for a game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := retroClient()
			if err != nil {
				return err
			}

			gameID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid game id %q", args[1])
			}

			progress, err := client.GetGameInfoAndUserProgress(cmd.Context(), args[0], gameID)
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d/%d achievements\n", progress.Title,
				progress.NumAwardedToUser.Int(), progress.NumAchievements.Int())
			return nil
		},
	}
}
