package main

import (
	"fmt"

	"github.com/alfredjeanlab/ideaforge/internal/ui"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events <idea-id>",
	Short: "Show the event history for an idea",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		events, err := c.GetEvents(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(events)
		}
		if len(events) == 0 {
			fmt.Println("no events recorded")
			return nil
		}
		for _, e := range events {
			fmt.Printf("%s  %s  %s\n",
				ui.RenderMuted(e.CreatedAt.Format("2006-01-02 15:04:05")),
				ui.RenderAccent(e.Topic), e.Payload)
		}
		return nil
	},
}
