package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edu-tools/report-atlas/pkg/models/domain"
	"github.com/edu-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/edu-tools/report-atlas/pkg/services/report"
	"github.com/edu-tools/report-atlas/pkg/services/wizard"
)

type WizardCmd struct {
	outDir   string
	service  *report.Service
	reporter *export.Reporter
	in       io.Reader
	out      io.Writer
}

// NewWizardCmd runs the interactive three-step report flow in the terminal.
func NewWizardCmd(service *report.Service, reporter *export.Reporter, in io.Reader, out io.Writer) *cobra.Command {
	wc := &WizardCmd{service: service, reporter: reporter, in: in, out: out}
	cmd := &cobra.Command{
		Use:   "wizard",
		Short: "Generate a report interactively",
		RunE:  wc.run,
	}

	cmd.Flags().StringVar(&wc.outDir, "out", ".", "Directory downloads are written to")

	return cmd
}

func (wc *WizardCmd) run(cmd *cobra.Command, _ []string) error {
	w := wizard.New(wc.service)
	scanner := bufio.NewScanner(wc.in)

	for {
		var err error
		switch w.Step() {
		case wizard.StepSelect:
			err = wc.runSelect(w, scanner)
		case wizard.StepConfigure:
			err = wc.runConfigure(cmd, w, scanner)
		case wizard.StepPreview:
			err = wc.runPreview(cmd, w, scanner)
		}
		if err == errQuit {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

var errQuit = errors.New("quit")

func (wc *WizardCmd) runSelect(w *wizard.Wizard, scanner *bufio.Scanner) error {
	kinds := domain.ReportKinds()
	fmt.Fprintln(wc.out, "\nStep 1 of 3: select a report type")
	for i, k := range kinds {
		fmt.Fprintf(wc.out, "  %d) %s\n", i+1, k.DisplayName())
	}

	for {
		answer, err := wc.prompt(scanner, "Report type (number, q to quit): ")
		if err != nil {
			return err
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(kinds) {
			return w.SelectKind(kinds[n-1])
		}
		fmt.Fprintln(wc.out, "Please enter a number from the list.")
	}
}

func (wc *WizardCmd) runConfigure(cmd *cobra.Command, w *wizard.Wizard, scanner *bufio.Scanner) error {
	periods := domain.PeriodTokens()
	fmt.Fprintf(wc.out, "\nStep 2 of 3: configure %s\n", w.Kind().DisplayName())
	for i, p := range periods {
		fmt.Fprintf(wc.out, "  %d) %s\n", i+1, p.DisplayName())
	}

	var period domain.PeriodToken
	for period == "" {
		answer, err := wc.prompt(scanner, "Period (number, b to go back, q to quit): ")
		if err == errBack {
			w.Back()
			return nil
		}
		if err != nil {
			return err
		}
		if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(periods) {
			period = periods[n-1]
		} else {
			fmt.Fprintln(wc.out, "Please enter a number from the list.")
		}
	}

	startupID, err := wc.promptStartup(cmd, scanner)
	if err == errBack {
		w.Back()
		return nil
	}
	if err != nil {
		return err
	}

	if err := w.Configure(period, startupID); err != nil {
		return err
	}

	if period == domain.PeriodCustom {
		r, err := wc.promptCustomRange(scanner)
		if err != nil {
			return err
		}
		if err := w.SetCustomRange(r); err != nil {
			return err
		}
	}

	if genErr := w.Generate(cmd.Context()); genErr != nil {
		// Selections survive; the user decides whether to retry.
		fmt.Fprintf(wc.out, "Generation failed: %v\n", genErr)
		answer, err := wc.prompt(scanner, "Retry? (y/n): ")
		if err != nil && err != errBack {
			return err
		}
		if !strings.EqualFold(answer, "y") {
			w.Reset()
		}
	}
	return nil
}

func (wc *WizardCmd) runPreview(cmd *cobra.Command, w *wizard.Wizard, scanner *bufio.Scanner) error {
	fmt.Fprintln(wc.out, "\nStep 3 of 3: preview")
	if err := wc.reporter.Handle(w.Generated()); err != nil {
		return err
	}

	for {
		answer, err := wc.prompt(scanner, "Download as (html/pdf), b to go back, n for a new report, q to quit: ")
		if err == errBack {
			w.Back()
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.ToLower(answer) {
		case "n":
			w.Reset()
			return nil
		case "html", "pdf":
			format, _ := domain.ParseExportFormat(strings.ToLower(answer))
			file, err := w.Download(cmd.Context(), format)
			if err != nil {
				fmt.Fprintf(wc.out, "Export failed: %v\n", err)
				continue
			}
			path := filepath.Join(wc.outDir, file.Name)
			if err := os.WriteFile(path, file.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(wc.out, "Report written to %s\n", path)
		default:
			fmt.Fprintln(wc.out, "Please answer html, pdf, b, n or q.")
		}
	}
}

func (wc *WizardCmd) promptStartup(cmd *cobra.Command, scanner *bufio.Scanner) (string, error) {
	startups, err := wc.service.Startups(cmd.Context())
	if err != nil {
		fmt.Fprintf(wc.out, "Startup list unavailable (%v); reporting on all startups.\n", err)
		return "", nil
	}

	fmt.Fprintln(wc.out, "  0) All Startups")
	for i, s := range startups {
		fmt.Fprintf(wc.out, "  %d) %s\n", i+1, s.Name)
	}

	for {
		answer, err := wc.prompt(scanner, "Startup (number, b to go back, q to quit): ")
		if err != nil {
			return "", err
		}
		n, convErr := strconv.Atoi(answer)
		switch {
		case convErr == nil && n == 0:
			return "", nil
		case convErr == nil && n >= 1 && n <= len(startups):
			return startups[n-1].ID, nil
		}
		fmt.Fprintln(wc.out, "Please enter a number from the list.")
	}
}

func (wc *WizardCmd) promptCustomRange(scanner *bufio.Scanner) (domain.DateRange, error) {
	for {
		start, err := wc.prompt(scanner, "Start date (YYYY-MM-DD, empty for open): ")
		if err != nil {
			return domain.DateRange{}, err
		}
		end, err := wc.prompt(scanner, "End date (YYYY-MM-DD, empty for open): ")
		if err != nil {
			return domain.DateRange{}, err
		}
		r, parseErr := parseCustomRange(start, end)
		if parseErr == nil {
			return r, nil
		}
		fmt.Fprintf(wc.out, "%v\n", parseErr)
	}
}

var errBack = errors.New("back")

// prompt reads one trimmed line. "q" quits the wizard, "b" steps back.
func (wc *WizardCmd) prompt(scanner *bufio.Scanner, label string) (string, error) {
	fmt.Fprint(wc.out, label)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errQuit
	}
	answer := strings.TrimSpace(scanner.Text())
	switch strings.ToLower(answer) {
	case "q":
		return "", errQuit
	case "b":
		return "", errBack
	}
	return answer, nil
}
