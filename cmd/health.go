package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"catalog-sync/feature/health"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var healthJSON bool

// healthCmd runs the health checks once and prints them.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check storage, database and platform connections",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		report := a.health.Check(context.Background())

		if healthJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printHealthReport(report)
		}

		if report.Status != health.StatusOK {
			return fmt.Errorf("service is %s", report.Status)
		}
		return nil
	},
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "Print the report as JSON")
	RootCmd.AddCommand(healthCmd)
}

func colorize(status string) string {
	color := "\033[32m" // Green
	switch status {
	case health.StatusError, health.StatusDegraded:
		color = "\033[31m" // Red
	case health.StatusDisabled:
		color = "\033[33m" // Yellow
	}
	return color + status + "\033[0m"
}

func printComponent(name string, r health.ComponentReport) {
	fmt.Printf("%-14s %s", name+":", colorize(r.Status))
	if r.Error != "" {
		fmt.Printf(" (%s)", r.Error)
	}
	if len(r.Missing) > 0 {
		fmt.Printf(" missing: %s", strings.Join(r.Missing, ", "))
	}
	fmt.Println()
}

func printHealthReport(r health.Report) {
	fmt.Println("\n--- Health ---")
	printComponent("Storage", r.Storage)
	printComponent("Database", r.Database)
	for _, c := range r.Connections {
		status := "connected"
		if !c.Connected {
			status = health.StatusDisabled
		}
		fmt.Printf("%-14s %s", string(c.Platform)+":", colorize(status))
		if c.Error != "" {
			fmt.Printf(" (%s)", c.Error)
		}
		fmt.Println()
	}
	fmt.Println("--------------")
	fmt.Printf("Status:        %s\n", colorize(r.Status))
}
