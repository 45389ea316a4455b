package game

import (
	"errors"
	"fmt"
)

// RuleError is a rejected command: the client asked for something the rules
// or the current room state do not allow. The message is safe to echo back
// on the command ack. Anything that is not a RuleError is an internal
// failure and is handled at the connection boundary instead.
type RuleError struct {
	Reason string
}

func (e *RuleError) Error() string { return e.Reason }

// Errorf builds a RuleError with a formatted, client-safe message.
func Errorf(format string, args ...any) error {
	return &RuleError{Reason: fmt.Sprintf(format, args...)}
}

// IsRuleError reports whether err is (or wraps) a rule rejection.
func IsRuleError(err error) bool {
	var re *RuleError
	return errors.As(err, &re)
}
