package runtime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/renfebot/pkg/domain"
)

var (
	errEmptyAnswer  = errors.New("empty answer")
	errPastDate     = errors.New("date is in the past")
	errOutOfOrder   = errors.New("answer precedes the previous one")
	errNotANumber   = errors.New("not a non-negative number")
	errInvalidDate  = errors.New("expected dd-mm-yyyy")
	errInvalidClock = errors.New("expected hh:mm")
)

// Lenient layouts: single-digit day, month and hour are accepted.
const (
	dateInputLayout = "2-1-2006"
	timeInputLayout = "15:4"
)

// yesAnswers are the confirm answers taken as "yes"; anything else is "no".
var yesAnswers = map[string]bool{
	"s": true, "si": true, "sí": true, "y": true, "yes": true,
}

// Confirm answers are normalized to these strings for transition conditions.
const (
	AnswerYes = "yes"
	AnswerNo  = "no"
)

// parseInput validates raw against the node's input type.
// It returns the value to store and the string transition conditions see.
func (e *Engine) parseInput(node *domain.Node, state *domain.State, raw string) (any, string, error) {
	if raw == "" {
		return nil, "", errEmptyAnswer
	}

	switch domain.InputType(node.InputType) {
	case domain.InputStation:
		if e.resolver == nil {
			return raw, raw, nil
		}
		name, err := e.resolver.Resolve(raw)
		if err != nil {
			return nil, "", err
		}
		return name, name, nil

	case domain.InputDate:
		return e.parseDate(node, state, raw)

	case domain.InputConfirm:
		if yesAnswers[strings.ToLower(raw)] {
			return true, AnswerYes, nil
		}
		return false, AnswerNo, nil

	case domain.InputPrice, domain.InputDuration:
		v, err := parseAmount(raw)
		if err != nil {
			return nil, "", err
		}
		return v, strconv.FormatFloat(v, 'f', -1, 64), nil

	case domain.InputTime:
		return parseClock(node, state, raw)

	default:
		if len(node.InputOptions) > 0 && !containsFold(node.InputOptions, raw) {
			return nil, "", fmt.Errorf("expected one of %v", node.InputOptions)
		}
		return raw, raw, nil
	}
}

func (e *Engine) parseDate(node *domain.Node, state *domain.State, raw string) (any, string, error) {
	now := e.clock()
	d, err := time.ParseInLocation(dateInputLayout, strings.ReplaceAll(raw, "/", "-"), now.Location())
	if err != nil {
		return nil, "", errInvalidDate
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return nil, "", errPastDate
	}

	if prev, ok := state.Context[node.After].(string); ok && node.After != "" {
		if p, err := time.ParseInLocation(domain.DateLayout, prev, now.Location()); err == nil && d.Before(p) {
			return nil, "", errOutOfOrder
		}
	}

	s := d.Format(domain.DateLayout)
	return s, s, nil
}

func parseClock(node *domain.Node, state *domain.State, raw string) (any, string, error) {
	t, err := time.Parse(timeInputLayout, strings.ReplaceAll(raw, ".", ":"))
	if err != nil {
		return nil, "", errInvalidClock
	}

	if prev, ok := state.Context[node.After].(string); ok && node.After != "" {
		if p, err := time.Parse(domain.TimeLayout, prev); err == nil && t.Before(p) {
			return nil, "", errOutOfOrder
		}
	}

	s := t.Format(domain.TimeLayout)
	return s, s, nil
}

// parseAmount reads a non-negative decimal written with a dot or a comma.
func parseAmount(raw string) (float64, error) {
	clean := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "€"))
	v, err := strconv.ParseFloat(strings.ReplaceAll(clean, ",", "."), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errNotANumber
	}
	return v, nil
}

func inputString(input any) string {
	switch v := input.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func containsFold(options []string, s string) bool {
	for _, o := range options {
		if strings.EqualFold(o, s) {
			return true
		}
	}
	return false
}
