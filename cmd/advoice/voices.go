package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/adforge/ad-voice-service/internal/speech"
)

func newVoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the available narration voices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tNAME\tGENDER\tACCENT\tDESCRIPTION")

			for _, voice := range speech.Voices() {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
					voice.ID, voice.Name, voice.Gender, voice.Accent, voice.Description)
			}

			return writer.Flush()
		},
	}
}
