package util

import (
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeArguments(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]any
		wantErr bool
	}{
		{"empty", "", map[string]any{}, false},
		{"whitespace", "  ", map[string]any{}, false},
		{"valid", `{"a": 40, "b": 12}`, map[string]any{"a": 40.0, "b": 12.0}, false},
		{"trailing comma", `{"a": 40, "b": 12,}`, map[string]any{"a": 40.0, "b": 12.0}, false},
		{"not an object", `[1, 2]`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeArguments(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemarshal(t *testing.T) {
	var out struct {
		A int `json:"a"`
	}
	require.NoError(t, Remarshal(map[string]any{"a": 7.0}, &out))
	assert.Equal(t, 7, out.A)
}

func TestSchemaToMap(t *testing.T) {
	s := &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"content": {Type: "string", Description: "new text"},
		},
		Required: []string{"content"},
	}

	m, err := SchemaToMap(s)
	require.NoError(t, err)
	assert.Equal(t, "object", m["type"])
	props, ok := m["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "content")
	assert.Equal(t, []string{"content"}, RequiredFields(s))

	empty, err := SchemaToMap(nil)
	require.NoError(t, err)
	assert.Equal(t, "object", empty["type"])
	assert.Equal(t, map[string]any{}, empty["properties"])
}

func TestRenderTemplate(t *testing.T) {
	out, err := RenderTemplate("no markers", nil)
	require.NoError(t, err)
	assert.Equal(t, "no markers", out)

	out, err = RenderTemplate("Doc: {{.document}} ({{upper .who}})", map[string]any{
		"document": "<b>Hello</b>",
		"who":      "drafter",
	})
	require.NoError(t, err)
	assert.Equal(t, "Doc: <b>Hello</b> (DRAFTER)", out)

	_, err = RenderTemplate("{{.broken", nil)
	assert.Error(t, err)
}

func TestPrompt_RenderReuse(t *testing.T) {
	p, err := ParsePrompt("drafter", "content is:{{ .document }}|{{ default \"none\" .note }}")
	require.NoError(t, err)

	first, err := p.Render(map[string]any{"document": "a"})
	require.NoError(t, err)
	assert.Equal(t, "content is:a|none", first)

	second, err := p.Render(map[string]any{"document": "b", "note": "x"})
	require.NoError(t, err)
	assert.Equal(t, "content is:b|x", second)

	assert.Panics(t, func() { MustParsePrompt("bad", "{{ .x") })
}
