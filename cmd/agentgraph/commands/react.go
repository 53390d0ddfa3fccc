package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/agentgraph/agent"
)

// defaultQuestion exercises both tool calls and a plain answer.
const defaultQuestion = "Add 40 + 12 and then multiply the result by 6. Also tell me a joke please."

func newReActCmd(f *flags) *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "react [question]",
		Short: "Answer a question with the reasoning loop and arithmetic tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.load(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := e.context(cmd)
			defer cancel()

			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				question = defaultQuestion
			}

			a, err := agent.NewReAct(e.model, nil, func(o *agent.Options) {
				o.MaxTurns = e.cfg.MaxTurns
				o.MaxParallel = parallel
				o.Limiter = e.limiter
				o.Callbacks = e.console.Callbacks()
				o.Logger = e.logger
			})
			if err != nil {
				return err
			}

			e.console.Banner(a.Name())
			e.console.User(question)
			_, err = a.Ask(ctx, question)
			return err
		},
	}
	cmd.Flags().IntVar(&parallel, "parallel", 1, "maximum concurrent tool calls per tool turn")
	return cmd
}
