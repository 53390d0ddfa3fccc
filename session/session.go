package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/agentgraph/artifact"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/transcript"
)

// Mode selects how history carries over between utterances.
type Mode int

const (
	// ModeStateless starts every utterance from an empty conversation.
	ModeStateless Mode = iota
	// ModeRetained appends every utterance to one conversation.
	ModeRetained
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeStateless:
		return "stateless"
	case ModeRetained:
		return "retained"
	default:
		return "unknown"
	}
}

// Runner drives one conversation state to the end of the graph.
// *engine.Engine satisfies it.
type Runner interface {
	Run(ctx context.Context, state *core.ConversationState) (*core.ConversationState, error)
}

// Options configures a Session.
type Options struct {
	Mode Mode
	// Store keeps conversation states. Defaults to an InMemoryStore.
	Store Store
	// ConversationID resumes a retained conversation from Store.
	ConversationID string
	// Artifacts receives the transcript on exit. Nil disables the transcript.
	Artifacts artifact.Store
	// TranscriptName defaults to transcript.DefaultName.
	TranscriptName string
	// OnReply observes the final assistant message of each run.
	OnReply func(core.AssistantMessage)
	Logger  logging.Logger
}

// Session is the outer loop around a Runner.
type Session struct {
	runner Runner
	input  Input
	opts   Options
	logger logging.Logger

	// history collects every run's messages in ModeStateless so the
	// transcript covers the whole session.
	history []core.Message
	current *core.ConversationState
}

// New creates a session.
func New(r Runner, in Input, optFns ...func(o *Options)) *Session {
	opts := Options{
		Mode:           ModeStateless,
		TranscriptName: transcript.DefaultName,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Store == nil {
		opts.Store = NewInMemoryStore()
	}
	return &Session{
		runner: r,
		input:  in,
		opts:   opts,
		logger: logging.OrNoOp(opts.Logger),
	}
}

// Result summarizes a finished session.
type Result struct {
	// Messages is the full conversation in order.
	Messages []core.Message
	// Turns counts processed utterances.
	Turns int
	// ConversationID identifies the retained conversation for a later resume.
	// Empty in ModeStateless.
	ConversationID string
	// TranscriptPath is the transcript location, empty when not saved.
	TranscriptPath string
}

// Loop reads utterances until ExitCommand or the end of input, running the
// graph once per utterance. A run failure stops the loop; the transcript of
// everything so far is still written.
func (s *Session) Loop(ctx context.Context) (*Result, error) {
	res := &Result{}
	var runErr error

	for {
		line, err := s.input.Next(ctx)
		if err != nil {
			if !IsEnd(err) {
				runErr = err
			}
			break
		}
		if IsExit(line) {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if err := s.turn(ctx, line); err != nil {
			if s.current == nil {
				// nothing ran, so there is no conversation to write out
				s.logger.Error("session.start.error", "error", err.Error())
				return res, err
			}
			runErr = err
			break
		}
		res.Turns++
	}

	s.logger.Info("session.end", "mode", s.opts.Mode.String(), "turns", res.Turns)
	return s.finish(ctx, res, runErr)
}

// RunOnce drives a single graph run that reads its own input through a
// prompter (see NewPrompter). ErrExit and ErrInputClosed count as a normal end.
func (s *Session) RunOnce(ctx context.Context) (*Result, error) {
	state, err := s.state(ctx)
	if err != nil {
		return nil, err
	}
	_, runErr := s.runner.Run(ctx, state)
	if IsEnd(runErr) {
		runErr = nil
	}
	runErr = errors.Join(runErr, s.persist(ctx, state))
	s.current = state
	s.reply(state)
	return s.finish(ctx, &Result{Turns: 1}, runErr)
}

func (s *Session) turn(ctx context.Context, line string) error {
	state, err := s.state(ctx)
	if err != nil {
		return err
	}
	if err := state.Append(core.NewUserText(line)); err != nil {
		return err
	}
	logging.With(s.logger, "conversation_id", state.ID).Debug("session.turn", "messages", state.Log.Len())

	_, runErr := s.runner.Run(ctx, state)
	runErr = errors.Join(runErr, s.persist(ctx, state))

	if s.opts.Mode == ModeStateless {
		s.history = append(s.history, state.Messages()...)
	}
	s.current = state
	if runErr != nil {
		return runErr
	}
	s.reply(state)
	return nil
}

// state returns the conversation the next run should extend.
func (s *Session) state(ctx context.Context) (*core.ConversationState, error) {
	if s.opts.Mode == ModeRetained {
		if s.current != nil {
			return s.current, nil
		}
		if s.opts.ConversationID != "" {
			return s.opts.Store.Get(ctx, s.opts.ConversationID)
		}
	}
	return core.NewConversationState()
}

// persist stores state even when the run was cancelled.
func (s *Session) persist(ctx context.Context, state *core.ConversationState) error {
	if err := s.opts.Store.Put(context.WithoutCancel(ctx), state); err != nil {
		logging.With(s.logger, "conversation_id", state.ID).Error("session.persist.error", "error", err.Error())
		return fmt.Errorf("persist conversation: %w", err)
	}
	return nil
}

func (s *Session) reply(state *core.ConversationState) {
	if s.opts.OnReply == nil {
		return
	}
	if last, ok := state.Log.Last(); ok {
		if am, ok := last.(core.AssistantMessage); ok {
			s.opts.OnReply(am)
		}
	}
}

// Messages returns the conversation so far.
func (s *Session) Messages() []core.Message {
	if s.opts.Mode == ModeStateless {
		return append([]core.Message(nil), s.history...)
	}
	if s.current == nil {
		return nil
	}
	return s.current.Messages()
}

func (s *Session) finish(ctx context.Context, res *Result, runErr error) (*Result, error) {
	if s.opts.Mode == ModeStateless && s.current != nil && len(s.history) == 0 {
		s.history = s.current.Messages()
	}
	res.Messages = s.Messages()
	if s.opts.Mode == ModeRetained && s.current != nil {
		res.ConversationID = s.current.ID
	}

	if s.opts.Artifacts != nil {
		loc, err := transcript.Save(context.WithoutCancel(ctx), s.opts.Artifacts, s.opts.TranscriptName, res.Messages)
		if err != nil {
			s.logger.Error("session.transcript.error", "error", err.Error())
			return res, errors.Join(runErr, fmt.Errorf("save transcript: %w", err))
		}
		res.TranscriptPath = loc
		s.logger.Info("session.transcript.saved", "location", loc)
	}
	return res, runErr
}
