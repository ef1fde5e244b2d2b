package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/edu-tools/report-atlas/pkg/services/report"
)

// NewHistoryCmd groups the report history operations.
func NewHistoryCmd(service *report.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and re-export previously generated reports",
	}

	cmd.AddCommand(newHistoryListCmd(service))
	cmd.AddCommand(newHistoryDeleteCmd(service))
	cmd.AddCommand(newHistoryExportCmd(service))

	return cmd
}

func newHistoryListCmd(service *report.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List history entries, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := service.History(cmd.Context())
			if len(entries) == 0 {
				cmd.Println("History is empty.")
				return nil
			}
			for _, e := range entries {
				startup := e.StartupName
				if startup == "" {
					startup = "All Startups"
				}
				cmd.Printf("%s  %-28s %-16s %-20s %s\n",
					e.GeneratedAt.Format("2006-01-02 15:04"),
					e.TypeName, e.Period, startup, e.ID)
			}
			return nil
		},
	}
}

func newHistoryDeleteCmd(service *report.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := service.DeleteHistory(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("failed to delete history entry: %w", err)
			}
			cmd.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
}

type historyExportCmd struct {
	format  string
	outDir  string
	service *report.Service
}

func newHistoryExportCmd(service *report.Service) *cobra.Command {
	hc := &historyExportCmd{service: service}
	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Re-export a stored report without re-fetching its data",
		Args:  cobra.ExactArgs(1),
		RunE:  hc.run,
	}

	cmd.Flags().StringVar(&hc.format, "format", "pdf", "Export format (html or pdf)")
	cmd.Flags().StringVar(&hc.outDir, "out", ".", "Directory the export is written to")

	return cmd
}

func (hc *historyExportCmd) run(cmd *cobra.Command, args []string) error {
	format, err := domain.ParseExportFormat(hc.format)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	file, err := hc.service.ExportStored(ctx, args[0], format)
	if err != nil {
		return fmt.Errorf("failed to export stored report: %w", err)
	}

	path := filepath.Join(hc.outDir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	cmd.Printf("Report written to %s\n", path)
	return nil
}
