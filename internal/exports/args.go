package exports

import (
	"fmt"
	"strconv"

	"github.com/radio-control/saltybridge/internal/adapter"
)

// Truthy reads args[i] as a selector flag. Missing values, nil, false,
// zero and the empty string are false; everything else is true.
func Truthy(args []any, i int) bool {
	if i >= len(args) {
		return false
	}
	switch v := args[i].(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return true
	}
}

// StringArg returns args[i] as a string. Numbers are formatted without
// trailing zeros so a script may pass 1337 for "1337".
func StringArg(args []any, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%w: argument %d is missing", adapter.ErrInvalidArgument, i+1)
	}
	switch v := args[i].(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	default:
		return "", fmt.Errorf("%w: argument %d must be a string, got %T", adapter.ErrInvalidArgument, i+1, args[i])
	}
}

// NumberArg returns args[i] as a float64. Integer types are widened.
func NumberArg(args []any, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("%w: argument %d is missing", adapter.ErrInvalidArgument, i+1)
	}
	switch v := args[i].(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("%w: argument %d must be a number, got %T", adapter.ErrInvalidArgument, i+1, args[i])
	}
}
