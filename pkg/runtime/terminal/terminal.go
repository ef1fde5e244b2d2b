// Package terminal wires the report engine into a command-line runtime.
package terminal

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/edu-tools/report-atlas/pkg/runtime/terminal/commands"
	"github.com/edu-tools/report-atlas/pkg/runtime/terminal/export"
	"github.com/edu-tools/report-atlas/pkg/services/report"
)

// CLI represents the command-line interface
type CLI struct {
	service  *report.Service
	reporter *export.Reporter
	input    io.Reader
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Service *report.Service
	Input   io.Reader
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		service:  opts.Service,
		reporter: export.NewReporter(opts.Output),
		input:    opts.Input,
	}

	cli.rootCmd = cli.newRootCmd(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd(output io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Report generation and export for the incubation program",
	}
	cmd.SetOut(output)

	cmd.AddCommand(commands.NewWizardCmd(cli.service, cli.reporter, cli.input, output))
	cmd.AddCommand(commands.NewGenerateCmd(cli.service))
	cmd.AddCommand(commands.NewHistoryCmd(cli.service))
	cmd.AddCommand(commands.NewStartupsCmd(cli.service))

	return cmd
}
