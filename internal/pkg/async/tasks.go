package async

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/exp/constraints"
)

// Errors collects the failures of a Map run. It is itself an error so callers
// can return it directly.
type Errors struct {
	E []error
}

var _ error = (*Errors)(nil)

func (e Errors) Wrapped() error {
	if len(e.E) == 0 {
		return nil
	}
	return e
}

// Is reports whether any collected error matches target.
func (e Errors) Is(target error) bool {
	for _, err := range e.E {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (e Errors) Error() string {
	var sb strings.Builder
	l := len(e.E)
	for i, err := range e.E {
		sb.WriteString(err.Error())
		if i < l-1 {
			sb.WriteString(", ")
		}
	}
	return sb.String()
}

// Result pairs the output of f for src[Index] with its error.
type Result[D any] struct {
	Index int
	Value D
	Err   error
}

// Map runs f over src with at most concurrencyLimit calls in flight. Unlike a
// fail-fast group, every element is attempted: results keep the order of src
// and a failing element only leaves its own Err set. The returned error
// aggregates every failure.
func Map[T any, D any](src []T, concurrencyLimit int, f func(T) (D, error)) ([]Result[D], error) {
	if len(src) == 0 {
		return []Result[D]{}, nil
	}

	if concurrencyLimit <= 0 {
		concurrencyLimit = len(src)
	}
	concurrencyLimit = min(concurrencyLimit, len(src))

	results := make([]Result[D], len(src))

	var wg sync.WaitGroup
	limiter := make(chan struct{}, concurrencyLimit)

	wg.Add(len(src))
	for i, element := range src {
		limiter <- struct{}{}
		go func(i int, el T) {
			defer func() {
				<-limiter
				wg.Done()
			}()

			r, err := f(el)
			results[i] = Result[D]{Index: i, Value: r, Err: err}
		}(i, element)
	}

	wg.Wait()

	errs := Errors{}
	for _, r := range results {
		if r.Err != nil {
			errs.E = append(errs.E, r.Err)
		}
	}

	return results, errs.Wrapped()
}

func min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	} else {
		return b
	}
}
