package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adforge/ad-voice-service/internal/tracker"
)

func newUsageCmd() *cobra.Command {
	var (
		campaignID  string
		showRecords bool
	)

	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show recorded usage for a campaign",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := newCLILogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Close() }()

			cfg := loadConfigOrDefaults(log)

			usageTracker, err := tracker.New(cfg.Tracker.DBPath)
			if err != nil {
				return err
			}
			defer func() { _ = usageTracker.Close() }()

			summary, err := usageTracker.CampaignSummary(cmd.Context(), campaignID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Campaign:   %s\n", summary.CampaignID)
			fmt.Fprintf(out, "Requests:   %d\n", summary.Requests)
			fmt.Fprintf(out, "Tokens:     %d\n", summary.TotalTokens)
			fmt.Fprintf(out, "Characters: %d\n", summary.TotalCharacters)
			fmt.Fprintf(out, "Cost:       $%.4f\n", summary.TotalCost)

			if !showRecords {
				return nil
			}

			records, err := usageTracker.ByCampaign(cmd.Context(), campaignID)
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "\nTIME\tOPERATION\tMODEL\tTOKENS\tCHARS\tCOST")

			for _, rec := range records {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%d\t$%.4f\n",
					rec.CreatedAt.Format("2006-01-02 15:04:05"),
					rec.Operation, rec.Model, rec.TotalTokens, rec.Characters, rec.Cost)
			}

			return writer.Flush()
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign identifier")
	cmd.Flags().BoolVar(&showRecords, "records", false, "List individual usage records")
	_ = cmd.MarkFlagRequired("campaign")

	return cmd
}
