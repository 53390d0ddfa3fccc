// Package document provides the mutable text document edited by the drafting
// agent, together with the update and save tools that operate on it.
//
// A Document is an explicitly owned value: every drafting session creates its
// own and hands it to Tools. Nothing is kept in package level state.
package document

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/hupe1980/agentgraph/artifact"
	"github.com/hupe1980/agentgraph/core"
	"github.com/hupe1980/agentgraph/logging"
	"github.com/hupe1980/agentgraph/tool"
)

// Extension is appended to save names that lack it.
const Extension = ".txt"

// ErrBlankName is returned by Save for a name with nothing before Extension.
var ErrBlankName = errors.New("document: blank file name")

// Options configures a Document.
type Options struct {
	// Initial content.
	Content string
	Logger  logging.Logger
}

// Document holds the text being drafted. It is safe for concurrent use.
type Document struct {
	mu      sync.RWMutex
	content string
	store   artifact.Store
	logger  logging.Logger
}

// New creates an empty document that saves through store.
func New(store artifact.Store, optFns ...func(o *Options)) *Document {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Document{
		content: opts.Content,
		store:   store,
		logger:  logging.OrNoOp(opts.Logger),
	}
}

// Content returns the current text.
func (d *Document) Content() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.content
}

// Update replaces the whole content.
func (d *Document) Update(content string) {
	d.mu.Lock()
	d.content = content
	d.mu.Unlock()
	d.logger.Debug("document.updated", "bytes", len(content))
}

// Save writes the current content verbatim under name, adding Extension when
// missing, and returns the artifact name used.
func (d *Document) Save(ctx context.Context, name string) (string, error) {
	if d.store == nil {
		return "", fmt.Errorf("document: no store configured")
	}
	name, err := FileName(name)
	if err != nil {
		return "", err
	}
	if err := d.store.Save(ctx, name, []byte(d.Content())); err != nil {
		return "", err
	}
	d.logger.Info("document.saved", "name", name)
	return name, nil
}

// FileName normalizes a save name to end in Extension. Names whose base is
// blank (" ", ".txt", "notes/") are rejected with ErrBlankName.
func FileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if !strings.HasSuffix(name, Extension) {
		name += Extension
	}
	stem := strings.TrimSpace(strings.TrimSuffix(path.Base(strings.ReplaceAll(name, "\\", "/")), Extension))
	if stem == "" {
		return "", fmt.Errorf("%w: %q", ErrBlankName, name)
	}
	return name, nil
}

type updateArgs struct {
	Content string `json:"content" jsonschema:"The new content to update the document with."`
}

type saveArgs struct {
	Filename string `json:"filename" jsonschema:"Name for the text file (with or without .txt extension)"`
}

// Tools returns the update and save tools bound to d.
func (d *Document) Tools() []tool.Tool {
	update := tool.MustNewTypedTool("update", "Updates the document with the provided content.",
		func(_ context.Context, args updateArgs) (any, error) {
			d.Update(args.Content)
			return fmt.Sprintf("Document has been updated successfully! The current content is:\n%s", args.Content), nil
		})

	save := tool.MustNewTypedTool("save", "Save the current document to a text file and finish the process.",
		func(ctx context.Context, args saveArgs) (any, error) {
			name, err := d.Save(ctx, args.Filename)
			if errors.Is(err, ErrBlankName) {
				return nil, &tool.ToolError{
					Tool:    "save",
					Message: "filename must not be blank",
					Code:    tool.CodeArgument,
					Err:     err,
				}
			}
			if err != nil {
				return nil, fmt.Errorf("error saving document: %w", err)
			}
			return tool.Result{
				Text:   fmt.Sprintf("Document has been saved successfully to '%s'.", artifact.LocationOf(d.store, name)),
				Signal: core.SignalDocumentSaved,
			}, nil
		})

	return []tool.Tool{update, save}
}
