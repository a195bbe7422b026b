package renfebot

import (
	"errors"

	"github.com/aretw0/renfebot/internal/runtime"
)

// InputError is returned by Navigate when an answer is rejected.
type InputError = runtime.InputError

// IsInputError reports whether err is a rejected answer and returns the
// prompt to send back to the user.
func IsInputError(err error) (string, bool) {
	var inputErr *runtime.InputError
	if errors.As(err, &inputErr) {
		return inputErr.Prompt, true
	}
	return "", false
}
