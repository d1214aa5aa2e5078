package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alfredjeanlab/ideaforge/internal/client"
	"github.com/alfredjeanlab/ideaforge/internal/export"
	"github.com/alfredjeanlab/ideaforge/internal/model"
	"github.com/spf13/cobra"
)

// clientLister adapts the HTTP client to the export paging interface.
type clientLister struct {
	c client.ForgeClient
}

func (l clientLister) ListBreakdowns(ctx context.Context, limit, offset int) ([]*model.BreakdownSession, int, error) {
	resp, err := l.c.ListBreakdowns(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return resp.Breakdowns, resp.Total, nil
}

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all project plans as JSONL",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		w := os.Stdout
		if exportOutput != "" && exportOutput != "-" {
			f, err := os.Create(exportOutput)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		if err := export.ExportJSONL(cmd.Context(), clientLister{c}, w); err != nil {
			return err
		}
		if w != os.Stdout {
			fmt.Printf("exported to %s\n", exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
}
