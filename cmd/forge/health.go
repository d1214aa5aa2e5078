package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		defer c.Close()

		status, err := c.Health(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]string{"status": status})
		}
		fmt.Printf("%s (%s)\n", status, serverURL)
		return nil
	},
}
