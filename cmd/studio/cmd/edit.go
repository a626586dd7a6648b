package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kubishi/yaduha-studio/pkg/form"
	"github.com/kubishi/yaduha-studio/pkg/renderers/tui"
)

func newEditCmd(s *settings) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Fill in a sentence interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, _, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			sync := o.Synchronizer()
			if name != "" {
				if err := sync.SwitchSchema(form.SwitchUpdate{Seq: o.Sequencer().Next(), Name: name}); err != nil {
					return err
				}
			}

			options := []tui.Option{
				tui.WithSequencer(o.Sequencer()),
				tui.WithLogger(s.logger),
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
				tui.WithTheme(tui.Theme{PreviewPrefix: "» "}),
			}
			if renderer, err := o.Registry().Get(s.cfg.Renderer); err == nil {
				options = append(options, tui.WithPreview(renderer))
			}

			value, err := tui.New(options...).Run(cmd.Context(), sync)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), value)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "sentence type to start with")
	return cmd
}
