package util

import (
	"fmt"
	"strings"
	"text/template"
)

var promptFuncs = template.FuncMap{
	"default": func(fallback, val any) any {
		if val == nil || val == "" {
			return fallback
		}
		return val
	},
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"trim":  strings.TrimSpace,
}

// Prompt is a parsed instruction template. Parse once, render per model call.
type Prompt struct {
	name   string
	tmpl   *template.Template
	static string
}

// ParsePrompt parses text. Text without template markers renders as is.
func ParsePrompt(name, text string) (*Prompt, error) {
	p := &Prompt{name: name}
	if !strings.Contains(text, "{{") {
		p.static = text
		return p, nil
	}
	tmpl, err := template.New(name).Funcs(promptFuncs).Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt %s: %w", name, err)
	}
	p.tmpl = tmpl
	return p, nil
}

// MustParsePrompt is like ParsePrompt but panics on error. For package level
// constants only.
func MustParsePrompt(name, text string) *Prompt {
	p, err := ParsePrompt(name, text)
	if err != nil {
		panic(err)
	}
	return p
}

// Render executes the prompt against data.
func (p *Prompt) Render(data map[string]any) (string, error) {
	if p.tmpl == nil {
		return p.static, nil
	}
	var sb strings.Builder
	if err := p.tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", p.name, err)
	}
	return sb.String(), nil
}

// RenderTemplate parses and renders text in one go.
func RenderTemplate(text string, data map[string]any) (string, error) {
	p, err := ParsePrompt("prompt", text)
	if err != nil {
		return "", err
	}
	return p.Render(data)
}
