package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/trophyline/gametrack-go/pkg/psn"
)

func newPSNCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "psn",
		Short: "Query the PlayStation Network trophy API",
	}

	cmd.AddCommand(newPSNTitlesCommand())
	cmd.AddCommand(newPSNSummaryCommand())
	cmd.AddCommand(newPSNTrophiesCommand())

	return cmd
}

func psnClient(cmd *cobra.Command) (*psn.Client, error) {
	npsso, err := requireEnv("PSN_NPSSO")
	if err != nil {
		return nil, err
	}
	return psn.NewClient(cmd.Context(), npsso, nil)
}

func newPSNTitlesCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "titles [account-id]",
		Short: "List trophy titles (defaults to your own)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := psnClient(cmd)
			if err != nil {
				return err
			}

			accountID := "me"
			if len(args) == 1 {
				accountID = args[0]
			}

			page, err := client.GetUserTitles(cmd.Context(), accountID, limit, 0)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tPLATFORM\tPROGRESS")
			for _, title := range page.TrophyTitles {
				fmt.Fprintf(w, "%s\t%s\t%d%%\n", title.TrophyTitleName, title.TrophyTitlePlatform, title.Progress)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "maximum titles to fetch")
	return cmd
}

func newPSNSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [account-id]",
		Short: "Show trophy level and earned counts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := psnClient(cmd)
			if err != nil {
				return err
			}

			accountID := "me"
			if len(args) == 1 {
				accountID = args[0]
			}

			summary, err := client.GetUserTrophySummary(cmd.Context(), accountID)
			if err != nil {
				return err
			}

			fmt.Printf("Trophy level: %d\n", summary.TrophyLevel)
			fmt.Printf("Platinum: %d  Gold: %d  Silver: %d  Bronze: %d\n",
				summary.EarnedTrophies.Platinum, summary.EarnedTrophies.Gold,
				summary.EarnedTrophies.Silver, summary.EarnedTrophies.Bronze)
			return nil
		},
	}
}

func newPSNTrophiesCommand() *cobra.Command {
	var serviceName string

	cmd := &cobra.Command{
		Use:   "trophies <np-communication-id>",
		Short: "List your earned trophies for a title",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := psnClient(cmd)
			if err != nil {
				return err
			}

			page, err := client.GetUserEarnedTrophies(cmd.Context(), "me", args[0], serviceName)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tEARNED\tDATE")
			for _, trophy := range page.Trophies {
				date := "-"
				if trophy.EarnedDateTime != nil {
					date = trophy.EarnedDateTime.Format("2006-01-02")
				}
				fmt.Fprintf(w, "%d\t%s\t%t\t%s\n", trophy.TrophyID, trophy.TrophyType, trophy.Earned, date)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&serviceName, "service", "", "np service name (trophy or trophy2)")
	return cmd
}
