package main

import (
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session <idea-id>",
	Short: "Show an idea's clarification session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		session, err := c.GetSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printClarificationSession(session)
	},
}
