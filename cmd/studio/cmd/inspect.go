package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kubishi/yaduha-studio/pkg/form"
	"github.com/kubishi/yaduha-studio/pkg/orchestrator"
)

type inspectOpts struct {
	name string
}

func newInspectCmd(s *settings) *cobra.Command {
	opts := &inspectOpts{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the sentence types of a schema set, or print one render tree",
		Example: `  studio inspect --schema sentences.json
  studio inspect --schema sentences.json --name SubjectVerb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			o, result, err := s.open(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if opts.name != "" {
				generated, err := o.Generate(cmd.Context(), orchestrator.Request{Schema: opts.name})
				if err != nil {
					return err
				}
				return writeJSON(out, generated.Tree)
			}

			set := o.Synchronizer().Set()
			interp := s.cfg.Interpreter()
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tFIELDS\tEXAMPLES")
			for _, name := range set.Names() {
				entry, _ := set.Get(name)
				fingerprint := form.FingerprintOf(interp, entry.Document)
				fmt.Fprintf(w, "%s\t%s\t%d\n", name, fingerprint, len(entry.Examples))
			}
			if result.Report != nil && result.Report.Name != "" {
				fmt.Fprintf(w, "\npackage %s (%s)\n", result.Report.Name, result.Report.Language)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&opts.name, "name", "n", "", "sentence type whose render tree to print")
	return cmd
}
