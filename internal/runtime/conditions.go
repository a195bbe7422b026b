package runtime

import (
	"context"
	"fmt"
	"strings"
)

// ConditionEvaluator decides whether a transition condition holds.
// input is the normalized answer; data is the conversation context after it was applied.
type ConditionEvaluator func(ctx context.Context, condition string, input string, data map[string]any) (bool, error)

// DefaultEvaluator understands four forms:
//
//	input == 'x'   answer equals x (case-insensitive)
//	input != 'x'   answer differs from x
//	key            context value is truthy
//	!key           context value is falsy or missing
func DefaultEvaluator(_ context.Context, condition string, input string, data map[string]any) (bool, error) {
	cond := strings.TrimSpace(condition)

	if op, rhs, ok := splitComparison(cond); ok {
		expected := strings.Trim(strings.TrimSpace(rhs), `'"`)
		equal := strings.EqualFold(strings.TrimSpace(input), expected)
		if op == "==" {
			return equal, nil
		}
		return !equal, nil
	}

	if cond == "" || strings.ContainsAny(cond, " =<>") {
		return false, fmt.Errorf("unsupported condition %q", condition)
	}

	if key, negated := strings.CutPrefix(cond, "!"); negated {
		return !truthy(data[strings.TrimSpace(key)]), nil
	}
	return truthy(data[cond]), nil
}

func splitComparison(cond string) (op, rhs string, ok bool) {
	for _, op := range []string{"==", "!="} {
		lhs, rhs, found := strings.Cut(cond, op)
		if found && strings.TrimSpace(lhs) == "input" {
			return op, rhs, true
		}
	}
	return "", "", false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return true
	}
}
