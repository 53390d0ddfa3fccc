package commands

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentgraph/agent"
	"github.com/hupe1980/agentgraph/artifact"
	"github.com/hupe1980/agentgraph/document"
	"github.com/hupe1980/agentgraph/internal/console"
	"github.com/hupe1980/agentgraph/session"
)

func newDrafterCmd(f *flags) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "drafter",
		Short: "Draft a document with the model and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := f.load(cmd, func(o *console.Options) {
				o.Prompt = "\nWhat would you like to do with the document? "
				o.Echo = true
			})
			if err != nil {
				return err
			}
			defer e.console.Close()
			ctx, cancel := e.context(cmd)
			defer cancel()

			a, err := agent.NewDrafter(e.model, e.store, e.console, func(o *agent.DrafterOptions) {
				o.MaxTurns = e.cfg.MaxTurns
				o.Limiter = e.limiter
				o.Callbacks = e.console.Callbacks()
				o.Logger = e.logger
			})
			if err != nil {
				return err
			}

			e.console.Banner("DRAFTER")
			res, err := a.Start(ctx, e.console, func(o *session.Options) {
				o.Artifacts = e.store
				o.Logger = e.logger
			})
			if err != nil {
				return err
			}

			if name != "" {
				saved, err := a.Document().Save(ctx, name)
				if err != nil {
					return err
				}
				e.console.Info("Document has been saved to: %s", artifact.LocationOf(e.store, saved))
			}
			if res.TranscriptPath != "" {
				e.console.Info("Conversation saved to %s", res.TranscriptPath)
			}
			e.console.Banner("DRAFTER FINISHED")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "save-as", "", "also save the final document under this name (adds "+document.Extension+")")
	return cmd
}
