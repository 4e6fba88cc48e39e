package common

import (
	"errors"
	"fmt"

	"github.com/AlvanCjh/paddock-panel/logger"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

func NewError(a ...any) error {
	msg := fmt.Sprintln(a...)
	return errors.New(msg)
}

// Combine joins the non-nil errors into a single error, or returns nil when
// there are none.
func Combine(errs ...error) error {
	var msg string
	for _, err := range errs {
		if err == nil {
			continue
		}
		if msg != "" {
			msg += ", "
		}
		msg += err.Error()
	}
	if msg == "" {
		return nil
	}
	return errors.New(msg)
}

func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}
