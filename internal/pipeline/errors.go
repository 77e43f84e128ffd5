package pipeline

import "fmt"

// FetchError means the mail source could not be read. The batch is treated
// as empty.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch emails: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ClassificationError means an email could not be classified. The email is
// left in the inbox.
type ClassificationError struct {
	EmailID string
	Err     error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classify email %s: %v", e.EmailID, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// UnknownCategoryError is returned for a label outside the taxonomy.
type UnknownCategoryError struct {
	Label string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q", e.Label)
}

// Handler stages reported by HandlerError.
const (
	StagePrompt  = "prompt"
	StageModel   = "model"
	StageParse   = "parse"
	StagePersist = "persist"
)

// HandlerError is a failure inside a category handler. Nothing was archived,
// so the email is retried on the next run.
type HandlerError struct {
	Category Category
	Stage    string
	Err      error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("handle %s (%s): %v", e.Category, e.Stage, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

// EnrichmentError is a failed best-effort sub-task. It is logged and the
// handler continues with a degraded result.
type EnrichmentError struct {
	Task string
	Err  error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Task, e.Err)
}

func (e *EnrichmentError) Unwrap() error { return e.Err }

// PersistenceError means the result bundle could not be saved.
type PersistenceError struct {
	EmailID string
	Err     error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist email %s: %v", e.EmailID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
