package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var clarifyCmd = &cobra.Command{
	Use:   "clarify <idea-id> <idea text...>",
	Short: "Start a clarification session for a raw idea",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		session, err := c.StartClarification(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		return printClarificationSession(session)
	},
}
