// Package commands implements the agentgraph CLI commands.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/hupe1980/agentgraph/artifact"
	"github.com/hupe1980/agentgraph/config"
	"github.com/hupe1980/agentgraph/internal/console"
	"github.com/hupe1980/agentgraph/internal/provider"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/model"
)

// flags holds the global flag values of one command tree.
type flags struct {
	configPath string
	provider   string
	model      string
	outputDir  string
	storage    string
	verbose    bool
}

// Execute runs the CLI with the process stdio.
func Execute(ctx context.Context) error {
	return NewRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx)
}

// NewRootCommand builds a fresh command tree reading user input from in and
// writing console output to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "agentgraph",
		Short: "Conversational agents driven by an LLM/tool execution graph",
		Long: `agentgraph - conversational agents built on a small execution graph.

Every agent alternates between a model turn and a tool turn until its
continuation predicate says to stop. Type 'exit' to leave an interactive
session; the conversation is then saved as chatbot-conversation.txt.

Providers: mock (offline echo), openai, anthropic, gemini, ollama.

Examples:
  # Chat with a local echo model
  agentgraph chat

  # Reason with tools using Gemini
  GEMINI_API_KEY=... agentgraph --provider gemini react "Add 40 + 12 and multiply by 6"

  # Draft a document and save it to S3
  agentgraph --config agentgraph.yaml drafter`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "path to a YAML config file")
	pf.StringVarP(&f.provider, "provider", "p", "", "model provider (mock, openai, anthropic, gemini, ollama)")
	pf.StringVarP(&f.model, "model", "m", "", "model name")
	pf.StringVarP(&f.outputDir, "output-dir", "o", "", "directory for saved documents and transcripts")
	pf.StringVar(&f.storage, "storage", "", "artifact storage backend (file, memory, s3)")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newChatCmd(f, false),
		newChatCmd(f, true),
		newReActCmd(f),
		newDrafterCmd(f),
		newVersionCmd(),
	)
	return root
}

// env bundles everything a command needs, built from config and flags.
type env struct {
	cfg     *config.Config
	logger  logging.Logger
	model   model.Model
	store   artifact.Store
	limiter *rate.Limiter
	console *console.Console
}

// load reads the config file (if any), applies flag overrides and builds the
// collaborators.
func (f *flags) load(cmd *cobra.Command, consoleOpts ...func(o *console.Options)) (*env, error) {
	cfg := config.Default()
	if f.configPath != "" {
		var err error
		if cfg, err = config.Load(f.configPath); err != nil {
			return nil, err
		}
	}
	if f.provider != "" {
		cfg.Provider = f.provider
	}
	if f.model != "" {
		cfg.Model = f.model
	}
	if f.outputDir != "" {
		cfg.OutputDir = f.outputDir
	}
	if f.storage != "" {
		cfg.Storage.Backend = f.storage
	}
	if f.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := provider.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	m, err := provider.NewModel(cmd.Context(), cfg)
	if err != nil {
		return nil, err
	}
	store, err := provider.NewStore(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug("cli.config", "provider", cfg.Provider, "model", m.Info().Name, "storage", cfg.Storage.Backend)

	return &env{
		cfg:     cfg,
		logger:  logger,
		model:   m,
		store:   store,
		limiter: provider.NewLimiter(cfg),
		console: console.New(cmd.InOrStdin(), cmd.OutOrStdout(), consoleOpts...),
	}, nil
}

// context applies the configured timeout to the command context.
func (e *env) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	if e.cfg.Timeout > 0 {
		return context.WithTimeout(cmd.Context(), e.cfg.Timeout)
	}
	return context.WithCancel(cmd.Context())
}
