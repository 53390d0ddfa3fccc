package commands

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/agentgraph/agent"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/session"
)

func newChatCmd(f *flags, memory bool) *cobra.Command {
	use, short := "chat", "Chat without memory: every message starts a new conversation"
	if memory {
		use, short = "memory", "Chat with memory: the whole conversation is sent every turn"
	}

	var conversationID string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := f.load(cmd)
			if err != nil {
				return err
			}
			defer e.console.Close()
			ctx, cancel := e.context(cmd)
			defer cancel()

			build := agent.NewChatbot
			if memory {
				build = agent.NewMemoryChatbot
			}
			a, err := build(e.model, func(o *agent.Options) {
				o.MaxTurns = e.cfg.MaxTurns
				o.Limiter = e.limiter
				o.Logger = e.logger
			})
			if err != nil {
				return err
			}

			e.console.Banner(a.Name())
			e.console.Info("Type 'exit' to quit.")

			res, err := a.Start(ctx, e.console, func(o *session.Options) {
				o.Artifacts = e.store
				o.ConversationID = conversationID
				o.Logger = e.logger
				if memory {
					o.Store = session.NewArtifactStore(e.store)
				}
				o.OnReply = func(m core.AssistantMessage) { e.console.Reply(m) }
			})
			if res != nil && res.TranscriptPath != "" {
				e.console.Info("Conversation saved to %s", res.TranscriptPath)
			}
			if res != nil && res.ConversationID != "" {
				e.console.Info("Resume with: agentgraph memory --resume %s", res.ConversationID)
			}
			return err
		},
	}
	if memory {
		cmd.Flags().StringVar(&conversationID, "resume", "", "conversation id to resume")
	}
	return cmd
}
