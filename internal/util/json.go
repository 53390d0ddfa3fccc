package util

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// DecodeArguments parses a model supplied JSON argument bundle into a map.
// Empty input yields an empty map. Syntactically broken JSON (trailing
// commas, single quotes, unterminated objects) is repaired before giving up.
func DecodeArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}

	args := map[string]any{}
	err := json.Unmarshal([]byte(raw), &args)
	if err == nil {
		return args, nil
	}

	if _, ok := err.(*json.SyntaxError); !ok {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}

	fixed, rerr := jsonrepair.JSONRepair(raw)
	if rerr != nil {
		return nil, fmt.Errorf("decode arguments: %w", err)
	}

	args = map[string]any{}
	if err := json.Unmarshal([]byte(fixed), &args); err != nil {
		return nil, fmt.Errorf("decode repaired arguments: %w", err)
	}

	return args, nil
}

// Remarshal converts between two JSON compatible shapes (e.g. a decoded
// argument map into a typed struct).
func Remarshal(in any, out any) error {
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
