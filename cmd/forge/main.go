// Command forge is the CLI for the ideaforge planning service: it runs the
// server (forge serve) and acts as an HTTP client for everything else.
package main

import (
	"os"

	"github.com/alfredjeanlab/ideaforge/internal/client"
	"github.com/alfredjeanlab/ideaforge/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool
)

func defaultServer() string {
	if s := os.Getenv("FORGE_SERVER"); s != "" {
		return s
	}
	if url := activeRemoteURL(); url != "" {
		return url
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if t := os.Getenv("FORGE_TOKEN"); t != "" {
		return t
	}
	return activeRemoteToken()
}

// newClient returns an HTTP client for the configured server.
func newClient() client.ForgeClient {
	return client.NewHTTPClient(serverURL, authToken)
}

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Turn a raw idea into a clarified, decomposed, scheduled project plan",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !ui.ShouldUseColor() || jsonOutput {
			ui.ForceNoColor()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer(), "forge server base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for the server")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(clarifyCmd)
	rootCmd.AddCommand(answerCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
