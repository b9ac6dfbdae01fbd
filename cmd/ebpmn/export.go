package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/BPM-Research-Group/ebpmn/internal/bpmnxml"
)

func newExportCmd(flags *rootFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Round-trip a BPMN document through the writer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := flags.logger("export")
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

			w := cmd.OutOrStdout()
			if output != "" {
				out, err := os.Create(output)
				if err != nil {
					return err
				}
				defer out.Close()
				w = out
			}
			return bpmnxml.Export(m, w)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the document to a file instead of stdout")
	return cmd
}
