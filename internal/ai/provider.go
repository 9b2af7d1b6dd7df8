package ai

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrMissingKey = errors.New("missing api key")
	ErrNoAnswer   = errors.New("provider returned no answer")
)

// Provider completes a single prompt with a language model.
type Provider interface {
	Complete(ctx context.Context, model string, prompt string) (string, error)
	CompleteWithSystem(ctx context.Context, model string, systemPrompt string, prompt string) (string, error)
}

// StatusError is returned when a provider answers with a non-2xx status.
type StatusError struct {
	Provider string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s status %d", e.Provider, e.Code)
}
