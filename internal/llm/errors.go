package llm

import "fmt"

// ModelError is returned when a model call fails after all retries.
type ModelError struct {
	Tier     Tier
	Model    string
	Attempts int
	Err      error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %s (%s) failed after %d attempt(s): %v", e.Model, e.Tier, e.Attempts, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}
