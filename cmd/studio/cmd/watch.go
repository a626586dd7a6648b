package cmd

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kubishi/yaduha-studio/pkg/loader"
	"github.com/kubishi/yaduha-studio/pkg/schema"
)

func newWatchCmd(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload the schema set on change and preview the current value",
		Long: `Watch the schema set file. Each time it changes the set is reloaded; the
form value survives when the active sentence type kept its shape and is
rebuilt from defaults otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			o, _, err := s.open(ctx)
			if err != nil {
				return err
			}
			src := schema.ParseSource(s.cfg.SchemaPath)
			if src.Kind() != schema.SourceKindFile {
				return fmt.Errorf("watch needs a file schema set, got %s", src.Location())
			}

			out := cmd.OutOrStdout()
			report := func() {
				sync := o.Synchronizer()
				fmt.Fprintf(out, "%s [%s] %s\n", sync.ActiveName(), sync.Fingerprint(), o.Preview(ctx, "").Text)
			}
			report()
			return o.Watch(ctx, src.Location(), func(result loader.Result, err error) {
				if err != nil {
					fmt.Fprintf(out, "reload failed: %v\n", err)
					return
				}
				fmt.Fprintf(out, "reloaded: %s\n", strings.Join(result.Set.Names(), ", "))
				report()
			})
		},
	}
}
