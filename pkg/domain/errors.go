package domain

import (
	"errors"
	"fmt"
)

// ErrConfiguration is matched by every machine definition error surfaced at step time.
var ErrConfiguration = errors.New("machine configuration error")

// ErrUndefinedTransition is returned when the current state has no transition
// for the symbol under the head.
var ErrUndefinedTransition = errors.New("undefined transition")

// ErrUnknownState is returned when a StateID is outside the defined states.
var ErrUnknownState = errors.New("unknown state")

// ErrSessionNotFound is returned when a machine session ID cannot be found.
var ErrSessionNotFound = errors.New("session not found")

// ConfigError reports the (state, symbol) pair that could not be executed.
type ConfigError struct {
	State     StateID
	StateName string
	Symbol    Symbol
	Err       error
}

func (e *ConfigError) Error() string {
	name := e.StateName
	if name == "" {
		name = "#" + e.State.String()
	}
	if errors.Is(e.Err, ErrUnknownState) {
		return fmt.Sprintf("%v: %s", e.Err, name)
	}
	return fmt.Sprintf("%v: state %s has no transition for symbol %q", e.Err, name, e.Symbol.String())
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Is makes every ConfigError match ErrConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}
