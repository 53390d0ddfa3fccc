// Package console is the terminal boundary of the CLI: it reads user
// utterances line by line and prints replies, tool usage and tool results
// with lipgloss styling.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/engine"
	"github.com/hupe1980/agentgraph/session"
)

// Theme defines the color scheme.
type Theme struct {
	User  lipgloss.Color
	AI    lipgloss.Color
	Tool  lipgloss.Color
	Dim   lipgloss.Color
	Error lipgloss.Color
}

// DefaultTheme is used when Options.Theme is zero.
var DefaultTheme = Theme{
	User:  lipgloss.Color("205"),
	AI:    lipgloss.Color("#04B575"),
	Tool:  lipgloss.Color("62"),
	Dim:   lipgloss.Color("240"),
	Error: lipgloss.Color("#FF0000"),
}

// Styles holds the styles derived from a theme.
type Styles struct {
	Title  lipgloss.Style
	User   lipgloss.Style
	AI     lipgloss.Style
	Tool   lipgloss.Style
	Help   lipgloss.Style
	Error  lipgloss.Style
	Prompt lipgloss.Style
}

// NewStyles creates styles bound to a renderer.
func NewStyles(r *lipgloss.Renderer, t Theme) Styles {
	return Styles{
		Title:  r.NewStyle().Bold(true).Foreground(t.AI).Padding(0, 1),
		User:   r.NewStyle().Bold(true).Foreground(t.User),
		AI:     r.NewStyle().Bold(true).Foreground(t.AI),
		Tool:   r.NewStyle().Foreground(t.Tool),
		Help:   r.NewStyle().Foreground(t.Dim),
		Error:  r.NewStyle().Bold(true).Foreground(t.Error),
		Prompt: r.NewStyle().Foreground(t.User),
	}
}

// Options configures a Console.
type Options struct {
	// Prompt is printed before every read.
	Prompt string
	// Echo prints the utterance back with a user label after reading it.
	Echo  bool
	Theme *Theme
}

// Console reads lines from r and writes styled output to w.
type Console struct {
	out    io.Writer
	styles Styles
	opts   Options

	mu        sync.Mutex
	lines     chan string
	err       error
	once      sync.Once
	in        io.Reader
	done      chan struct{}
	closeOnce sync.Once
	// stopped is closed when the reader goroutine returns.
	stopped chan struct{}
}

// New creates a console.
func New(r io.Reader, w io.Writer, optFns ...func(o *Options)) *Console {
	opts := Options{Prompt: "Enter: "}
	for _, fn := range optFns {
		fn(&opts)
	}
	theme := DefaultTheme
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	return &Console{
		in:     r,
		out:    w,
		opts:    opts,
		styles:  NewStyles(lipgloss.NewRenderer(w), theme),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// start launches the reader goroutine so Next can honour ctx while the
// underlying read blocks. One line is buffered, so a line read while Next was
// cancelled is handed to the next call.
func (c *Console) start() {
	c.lines = make(chan string, 1)
	go func() {
		defer close(c.stopped)
		defer close(c.lines)
		sc := bufio.NewScanner(c.in)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for sc.Scan() {
			select {
			case c.lines <- sc.Text():
			case <-c.done:
				return
			}
		}
		c.mu.Lock()
		c.err = sc.Err()
		c.mu.Unlock()
	}()
}

// Close stops reading. The reader goroutine exits once its pending read
// returns; later Next calls report session.ErrInputClosed.
func (c *Console) Close() error {
	c.closeOnce.Do(func() { close(c.done) })
	return nil
}

// Next implements session.Input. End of input yields session.ErrInputClosed.
func (c *Console) Next(ctx context.Context) (string, error) {
	select {
	case <-c.done:
		return "", session.ErrInputClosed
	default:
	}
	c.once.Do(c.start)
	if c.opts.Prompt != "" {
		fmt.Fprint(c.out, c.styles.Prompt.Render(c.opts.Prompt))
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-c.done:
		return "", session.ErrInputClosed
	case line, ok := <-c.lines:
		if !ok {
			c.mu.Lock()
			err := c.err
			c.mu.Unlock()
			if err != nil {
				return "", fmt.Errorf("console: read: %w", err)
			}
			return "", session.ErrInputClosed
		}
		line = strings.TrimRight(line, "\r")
		if c.opts.Echo && !session.IsExit(line) {
			c.User(line)
		}
		return line, nil
	}
}

// Banner prints a title line.
func (c *Console) Banner(title string) {
	fmt.Fprintf(c.out, "\n%s\n", c.styles.Title.Render("===== "+title+" ====="))
}

// Info prints a dimmed line.
func (c *Console) Info(format string, args ...any) {
	fmt.Fprintln(c.out, c.styles.Help.Render(fmt.Sprintf(format, args...)))
}

// User prints a user utterance.
func (c *Console) User(text string) {
	fmt.Fprintf(c.out, "\n%s %s\n", c.styles.User.Render("USER:"), text)
}

// Reply prints an assistant message and the tools it requested.
func (c *Console) Reply(m core.AssistantMessage) {
	if m.Content != "" || !m.HasToolCalls() {
		fmt.Fprintf(c.out, "\n%s %s\n", c.styles.AI.Render("AI:"), m.Content)
	}
	if m.HasToolCalls() {
		fmt.Fprintf(c.out, "%s %s\n", c.styles.Tool.Render("USING TOOLS:"), strings.Join(m.ToolNames(), ", "))
	}
}

// ToolResult prints one tool result.
func (c *Console) ToolResult(r core.ToolResultMessage) {
	label := c.styles.Tool.Render("TOOL RESULT:")
	if r.IsError {
		label = c.styles.Error.Render("TOOL ERROR:")
	}
	fmt.Fprintf(c.out, "\n%s %s\n", label, r.Content)
}

// Error prints an error line.
func (c *Console) Error(err error) {
	fmt.Fprintf(c.out, "\n%s %v\n", c.styles.Error.Render("ERROR:"), err)
}

// Callbacks returns engine callbacks printing every model reply and tool
// result as the graph runs.
func (c *Console) Callbacks() *engine.CallbackManager {
	return engine.NewCallbackManager(
		engine.NewFunctionCallback(engine.CallbackAfterModel, func(_ context.Context, cc *engine.CallbackContext) error {
			if am, ok := cc.Message.(core.AssistantMessage); ok {
				c.Reply(am)
			}
			return nil
		}),
		engine.NewFunctionCallback(engine.CallbackAfterTool, func(_ context.Context, cc *engine.CallbackContext) error {
			if res, ok := cc.Message.(core.ToolResultMessage); ok {
				c.ToolResult(res)
			}
			return nil
		}),
	)
}
