package main

import (
	"strings"

	"github.com/alfredjeanlab/ideaforge/internal/client"
	"github.com/spf13/cobra"
)

var breakdownTeamSize int

var breakdownCmd = &cobra.Command{
	Use:   "breakdown <idea-id> [idea text...]",
	Short: "Run the full breakdown pipeline for an idea",
	Long: `Run analysis, task decomposition, dependency graphing, and timeline
generation for an idea. With no idea text, the server uses the refined idea
and answers from the idea's completed clarification session.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		req := &client.StartBreakdownRequest{
			IdeaText: strings.Join(args[1:], " "),
			TeamSize: breakdownTeamSize,
		}
		session, err := c.StartBreakdown(cmd.Context(), args[0], req)
		if err != nil {
			return err
		}
		return printBreakdownSession(session)
	},
}

func init() {
	breakdownCmd.Flags().IntVar(&breakdownTeamSize, "team-size", 0, "override the analyzed team size")
}
