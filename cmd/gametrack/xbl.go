package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trophyline/gametrack-go/pkg/xbl"
)

func newXblCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xbl",
		Short: "Query the Xbox Live API",
	}

	cmd.AddCommand(newXblProfileCommand())
	cmd.AddCommand(newXblTitlesCommand())
	cmd.AddCommand(newXblAchievementsCommand())

	return cmd
}

func xblClient(cmd *cobra.Command) (*xbl.Client, error) {
	msToken, err := requireEnv("XBL_MS_TOKEN")
	if err != nil {
		return nil, err
	}
	return xbl.NewClient(cmd.Context(), msToken, nil)
}

func newXblProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [xuid]",
		Short: "Show a profile (defaults to your own)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := xblClient(cmd)
			if err != nil {
				return err
			}

			xuid := client.XUID()
			if len(args) == 1 {
				xuid = args[0]
			}

			profiles, err := client.GetProfile(cmd.Context(), []string{xuid}, nil)
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				return fmt.Errorf("no profile found for xuid %s", xuid)
			}

			profile := profiles[0]
			fmt.Printf("Gamertag:   %s\n", profile.Setting("Gamertag"))
			fmt.Printf("Gamerscore: %s\n", profile.Setting("Gamerscore"))
			fmt.Printf("Tier:       %s\n", profile.Setting("AccountTier"))
			return nil
		},
	}
}

func newXblTitlesCommand() *cobra.Command {
	var maxItems int

	cmd := &cobra.Command{
		Use:   "titles",
		Short: "List recently played titles with achievement progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := xblClient(cmd)
			if err != nil {
				return err
			}

			titles, err := client.GetTitleHistory(cmd.Context(), "", maxItems)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tGAMERSCORE\tACHIEVEMENTS")
			for _, title := range titles {
				fmt.Fprintf(w, "%s\t%d/%d\t%d/%d\n", title.Name,
					title.Achievement.CurrentGamerscore, title.Achievement.TotalGamerscore,
					title.Achievement.CurrentAchievements, title.Achievement.TotalAchievements)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&maxItems, "max", 25, "maximum titles to fetch")
	return cmd
}

func newXblAchievementsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "achievements <title-id>",
		Short: "List your achievements for a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := xblClient(cmd)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSTATE\tUNLOCKED")

			token := ""
			for {
				page, err := client.GetAchievements(cmd.Context(), "", args[0], token)
				if err != nil {
					return err
				}
				for _, a := range page.Achievements {
					unlocked := "-"
					if a.Progression.TimeUnlocked != nil {
						unlocked = a.Progression.TimeUnlocked.Format("2006-01-02")
					}
					fmt.Fprintf(w, "%s\t%s\t%s\n", a.Name, a.ProgressState, unlocked)
				}
				if page.ContinuationToken == "" {
					break
				}
				token = page.ContinuationToken
			}
			return w.Flush()
		},
	}
}
