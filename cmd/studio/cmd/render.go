package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kubishi/yaduha-studio/pkg/orchestrator"
)

type renderOpts struct {
	name      string
	example   int
	valuePath string
	showValue bool
}

func newRenderCmd(s *settings) *cobra.Command {
	opts := &renderOpts{}
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Preview the sentence for a form value",
		Long: `Preview the sentence for a sentence type's default value, one of its
examples, or a value read from a JSON file ("-" reads stdin). Rendering
problems are shown as a placeholder rather than an error.`,
		Example: `  studio render --schema sentences.json --templates templates --example 0
  echo '{"subject":"dog","verb":"run"}' | studio render -s sentences.json --value -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, _, err := s.open(cmd.Context())
			if err != nil {
				return err
			}

			req := orchestrator.Request{Schema: opts.name}
			if opts.example >= 0 {
				req.Example = &opts.example
			}
			if opts.valuePath != "" {
				value, err := readValue(opts.valuePath, cmd.InOrStdin())
				if err != nil {
					return err
				}
				req.Value = value
			}

			generated, err := o.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if generated.Preview.Err != nil {
				s.logger.WithError(generated.Preview.Err).Debug("renderer failed")
			}
			out := cmd.OutOrStdout()
			if opts.showValue {
				if err := writeJSON(out, generated.Value); err != nil {
					return err
				}
			}
			_, err = fmt.Fprintln(out, generated.Preview.Text)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.name, "name", "n", "", "sentence type (defaults to the first)")
	flags.IntVarP(&opts.example, "example", "e", -1, "index of the example to load")
	flags.StringVar(&opts.valuePath, "value", "", "JSON file holding the form value")
	flags.BoolVar(&opts.showValue, "show-value", false, "print the form value before the sentence")
	return cmd
}
