package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alfredjeanlab/ideaforge/internal/ui"
	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <idea-id>",
	Short: "Show an idea's project plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		session, err := c.GetBreakdown(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printBreakdownSession(session)
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all project plans",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		c := newClient()
		defer c.Close()

		resp, err := c.ListBreakdowns(cmd.Context(), limit, offset)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(resp)
		}
		if len(resp.Breakdowns) == 0 {
			fmt.Println("no plans found")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "IDEA\tSTATUS\tTASKS\tWEEKS\tUPDATED")
		for _, b := range resp.Breakdowns {
			tasks, weeks := 0, 0
			if b.Decomposition != nil {
				tasks = len(b.Decomposition.Tasks)
			}
			if b.Timeline != nil {
				weeks = b.Timeline.TotalWeeks
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n",
				b.IdeaID, ui.RenderStatus(string(b.Status)), tasks, weeks,
				b.UpdatedAt.Format("2006-01-02 15:04"))
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("\n%d of %d plans\n", len(resp.Breakdowns), resp.Total)
		return nil
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <idea-id>",
	Short: "Delete an idea's project plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		if err := c.DeleteBreakdown(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("plan for %q deleted\n", args[0])
		return nil
	},
}

func init() {
	planListCmd.Flags().Int("limit", 50, "maximum number of plans to list")
	planListCmd.Flags().Int("offset", 0, "number of plans to skip")
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planDeleteCmd)
}
