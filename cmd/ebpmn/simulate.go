package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BPM-Research-Group/ebpmn/internal/bpmnxml"
	"github.com/BPM-Research-Group/ebpmn/internal/semantics"
	"github.com/BPM-Research-Group/ebpmn/internal/simulate"
)

func newSimulateCmd(flags *rootFlags) *cobra.Command {
	var scenarioPath string

	cmd := &cobra.Command{
		Use:   "simulate <file>",
		Short: "Replay a YAML scenario against the model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := flags.logger("simulate")
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

			s, err := os.Open(scenarioPath)
			if err != nil {
				return err
			}
			defer s.Close()

			scenario, err := simulate.ParseScenario(s)
			if err != nil {
				return err
			}

			engine := semantics.New(m)
			runner := simulate.NewRunner(engine, log)
			fired, marking, err := runner.Run(ctx, scenario)

			out := cmd.OutOrStdout()
			for i, step := range fired {
				if step.Activity != "" {
					fmt.Fprintf(out, "%2d  fired %d: %s  [%s]\n", i, step.Transition, step.Debug, step.Activity)
				} else {
					fmt.Fprintf(out, "%2d  fired %d: %s\n", i, step.Transition, step.Debug)
				}
			}
			if err != nil {
				return err
			}

			if engine.IsFinal(marking) {
				fmt.Fprintln(out, "run ended in a final marking")
			} else {
				fmt.Fprintf(out, "run ended with %d transitions still enabled\n", len(engine.EnabledTransitions(marking)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "Scenario document to replay")
	_ = cmd.MarkFlagRequired("scenario")
	return cmd
}
