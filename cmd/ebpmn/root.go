package main

import (
	"context"
	"os"

	cblog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/BPM-Research-Group/ebpmn/internal/infrastructure/logging"
	"github.com/BPM-Research-Group/ebpmn/internal/ports"
)

type rootFlags struct {
	logLevel string
	jsonLogs bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "ebpmn",
		Short:         "ebpmn imports BPMN 2.0 collaborations and plays their token semantics",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&flags.jsonLogs, "json-logs", false, "Force JSON log output")

	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newShowCmd(flags))
	cmd.AddCommand(newExportCmd(flags))
	cmd.AddCommand(newSimulateCmd(flags))
	cmd.AddCommand(newExploreCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func (f *rootFlags) logger(component string) (ports.Logger, error) {
	var formatter cblog.Formatter
	if f.jsonLogs || !term.IsTerminal(int(os.Stderr.Fd())) {
		formatter = cblog.JSONFormatter
	}
	return logging.New(logging.Options{
		Writer:    os.Stderr,
		Level:     f.logLevel,
		Formatter: formatter,
		Component: component,
	})
}

// commandContext correlates all log entries of one command execution.
func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ports.WithCorrelationID(ctx, ports.GenerateCorrelationID())
}
