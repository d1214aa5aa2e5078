package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var answerCmd = &cobra.Command{
	Use:   "answer <idea-id> <question-id> <answer text...>",
	Short: "Answer a clarifying question",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		session, err := c.SubmitAnswer(cmd.Context(), args[0], args[1], strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		return printClarificationSession(session)
	},
}
