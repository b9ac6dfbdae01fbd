package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BPM-Research-Group/ebpmn/internal/bpmnxml"
)

func newValidateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Import a BPMN document and run the structural checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := flags.logger("validate")
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			m, err := bpmnxml.NewImporter(log).Import(ctx, f)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d elements, %d message flows)\n",
				args[0], m.NumberOfElements(), len(m.MessageFlows))
			return nil
		},
	}
}
