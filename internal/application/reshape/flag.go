package reshape

import (
	"strings"

	"github.com/hotelviz/flourish-prep/internal/shared/types"
)

var flagValues = map[string]bool{
	"1":        true,
	"true":     true,
	"yes":      true,
	"canceled": true,
	"0":        false,
	"false":    false,
	"no":       false,
}

// ParseFlag converts a cancellation-flag cell into a boolean. Accepted
// tokens are 0/1, true/false, yes/no and "canceled" (case and surrounding
// whitespace are ignored). Anything else is a MalformedRowError.
func ParseFlag(value string, row int, column string) (bool, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if b, ok := flagValues[v]; ok {
		return b, nil
	}
	return false, &types.MalformedRowError{Row: row, Column: column, Value: value, Want: "boolean"}
}
