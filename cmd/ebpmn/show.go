package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BPM-Research-Group/ebpmn/internal/bpmnxml"
	"github.com/BPM-Research-Group/ebpmn/internal/semantics"
)

func newShowCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Print the model summary and the transition table of the initial marking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := flags.logger("show")
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

			engine := semantics.New(m)
			marking, err := engine.InitialState()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "BPMN model with %d elements\n", m.NumberOfElements())

			enabled := make(map[int]bool)
			for _, t := range engine.EnabledTransitions(marking) {
				enabled[t] = true
			}

			fmt.Fprintln(out, "transitions:")
			for t := 0; t < engine.NumberOfTransitions(marking); t++ {
				detail, ok := engine.TransitionDebug(marking, t)
				if !ok {
					detail = "?"
				}
				mark := " "
				if enabled[t] {
					mark = "*"
				}
				fmt.Fprintf(out, "  %s %3d  %s\n", mark, t, detail)
			}
			return nil
		},
	}
}
