package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/BPM-Research-Group/ebpmn/internal/bpmnxml"
	"github.com/BPM-Research-Group/ebpmn/internal/semantics"
	"github.com/BPM-Research-Group/ebpmn/internal/tui"
)

func newExploreCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "explore <file>",
		Short: "Play the token game interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := flags.logger("explore")
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

			explorer, err := tui.NewModel(semantics.New(m))
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(explorer).Run()
			return err
		},
	}
}
