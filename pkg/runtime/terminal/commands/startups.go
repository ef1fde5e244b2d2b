package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edu-tools/report-atlas/pkg/services/report"
)

// NewStartupsCmd lists the startups available for the report filter.
func NewStartupsCmd(service *report.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "startups",
		Short: "List incubated startups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			startups, err := service.Startups(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list startups: %w", err)
			}
			for _, s := range startups {
				cmd.Printf("%-36s %s\n", s.ID, s.Name)
			}
			return nil
		},
	}
}
