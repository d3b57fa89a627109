package project

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
)

var jsonOutput bool

// Cmd is the project command group
var Cmd = &cobra.Command{
	Use:   "project",
	Short: "Inspect project health",
	Long:  `Show the traffic-light health, reasons, next action and economy of projects.`,
}

func init() {
	Cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print the API JSON instead of text")
	Cmd.AddCommand(healthCmd)
	Cmd.AddCommand(listCmd)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
