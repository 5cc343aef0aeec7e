package repository

import (
	"context"
	"errors"
	"sync"
)

// TaskError accumulates multiple errors produced by concurrent batch writes.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := "multiple errors:"
	for _, err := range e.Errors {
		msg += " " + err.Error() + ";"
	}
	return msg
}

// Unwrap exposes the collected errors to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// runPool calls fn for every index in [0,total) using the given number of
// workers. Context cancellation stops dispatch and is returned as is.
func runPool(ctx context.Context, workers, total int, fn func(idx int) error) error {
	if total == 0 {
		return nil
	}
	if workers > total {
		workers = total
	}
	indexCh := make(chan int)
	errCh := make(chan error, total)
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := fn(idx); err != nil {
				errCh <- err
			}
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}

	cancelled := false
Loop:
	for i := 0; i < total; i++ {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		select {
		case indexCh <- i:
		case <-ctx.Done():
			cancelled = true
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(errCh)

	if cancelled {
		return ctx.Err()
	}

	var taskErr TaskError
	for err := range errCh {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		taskErr.append(err)
	}
	return taskErr.asError()
}
