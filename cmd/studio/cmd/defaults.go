package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kubishi/yaduha-studio/pkg/orchestrator"
)

func newDefaultsCmd(s *settings) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "defaults",
		Short: "Print the default form value of a sentence type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, _, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			generated, err := o.Generate(cmd.Context(), orchestrator.Request{Schema: name})
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), generated.Value)
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "sentence type (defaults to the first)")
	return cmd
}
