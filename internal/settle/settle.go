package settle

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of a single task.
type Outcome[T any] struct {
	Index int
	Value T
	Err   error
}

// OK reports whether the task succeeded.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// Summary aggregates the outcomes of a settled batch.
type Summary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d succeeded, %d failed", s.Successful, s.Total, s.Failed)
}

// PanicError is recorded for a task that panicked.
type PanicError struct {
	Index int
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %d panicked: %v", e.Index, e.Value)
}

// All runs fn for every index in [0, n) and waits for all of them. At most
// limit tasks run at once; limit <= 0 means no limit. Outcomes are returned
// in index order. A panic inside fn is recovered and recorded as that task's
// *PanicError.
func All[T any](ctx context.Context, n, limit int, fn func(ctx context.Context, i int) (T, error)) []Outcome[T] {
	outcomes := make([]Outcome[T], n)
	if n == 0 {
		return outcomes
	}

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := 0; i < n; i++ {
		g.Go(func() error {
			out := Outcome[T]{Index: i}
			defer func() {
				if r := recover(); r != nil {
					out.Err = &PanicError{Index: i, Value: r}
				}
				outcomes[i] = out
			}()
			out.Value, out.Err = fn(ctx, i)
			// Never fail the group; each task owns its error.
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// Summarize counts the successful and failed outcomes.
func Summarize[T any](outcomes []Outcome[T]) Summary {
	s := Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.OK() {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	return s
}

// Errors joins the errors of all failed outcomes, or returns nil.
func Errors[T any](outcomes []Outcome[T]) error {
	var errs []error
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
		}
	}
	return errors.Join(errs...)
}
