package eggverifs

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"zmbs.dev/eggseed/internal/catalog"
	"zmbs.dev/eggseed/internal/model"
	"zmbs.dev/eggseed/internal/pkg/seederr"
)

type Violation struct {
	Index    int                `json:"index"`
	Key      model.Key          `json:"key"`
	Verifier string             `json:"verifier"`
	Field    string             `json:"field,omitempty"`
	Err      *seederr.SeedError `json:"error"`
}

func newViolation(entry *catalog.Entry, field string, err *seederr.SeedError) *Violation {
	return &Violation{
		Index: entry.Index,
		Key:   entry.Key,
		Field: field,
		Err:   err,
	}
}

// Rejects reports whether the violation excludes its record from loading.
func (v *Violation) Rejects() bool {
	return !v.Err.IsWarning()
}

func (v *Violation) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] record #%d (%s)", v.Err.Severity, v.Index, v.Key)
	if v.Field != "" {
		fmt.Fprintf(&b, " %s", v.Field)
	}
	fmt.Fprintf(&b, ": %s", v.Err.Error())
	return b.String()
}

type Report struct {
	Source     string       `json:"source"`
	Total      int          `json:"total"`
	Violations []*Violation `json:"violations"`

	rejected map[int]struct{}
}

func newReport(c *catalog.Catalog) *Report {
	return &Report{
		Source:     c.Source,
		Total:      c.Len(),
		Violations: []*Violation{},
		rejected:   map[int]struct{}{},
	}
}

func (r *Report) add(violations ...*Violation) {
	for _, v := range violations {
		r.Violations = append(r.Violations, v)
		if v.Rejects() {
			r.rejected[v.Index] = struct{}{}
		}
	}
}

func (r *Report) sort() {
	sort.SliceStable(r.Violations, func(i, j int) bool {
		return r.Violations[i].Index < r.Violations[j].Index
	})
}

func (r *Report) Rejected(index int) bool {
	_, ok := r.rejected[index]
	return ok
}

func (r *Report) RejectedCount() int {
	return len(r.rejected)
}

func (r *Report) Errors() []*Violation {
	return lo.Filter(r.Violations, func(v *Violation, _ int) bool {
		return v.Rejects()
	})
}

func (r *Report) Warnings() []*Violation {
	return lo.Filter(r.Violations, func(v *Violation, _ int) bool {
		return !v.Rejects()
	})
}

// Accepted returns the records of c that survived verification, in dataset order.
func (r *Report) Accepted(c *catalog.Catalog) []*model.EasterEgg {
	eggs := make([]*model.EasterEgg, 0, len(c.Entries))
	for _, e := range c.Entries {
		if e.Egg != nil && !r.Rejected(e.Index) {
			eggs = append(eggs, e.Egg)
		}
	}
	return eggs
}

// Err returns a *ValidationError listing every violation when at least one
// of them rejects a record.
func (r *Report) Err() error {
	if len(r.Errors()) == 0 {
		return nil
	}
	return &ValidationError{Source: r.Source, Violations: r.Violations}
}

// StrictErr is Err with warnings treated as failures too.
func (r *Report) StrictErr() error {
	if len(r.Violations) == 0 {
		return nil
	}
	return &ValidationError{Source: r.Source, Violations: r.Violations}
}

type ValidationError struct {
	Source     string
	Violations []*Violation
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d violation(s) in %s", len(e.Violations), e.Source)
	for _, v := range e.Violations {
		b.WriteString("\n  ")
		b.WriteString(v.String())
	}
	return b.String()
}

// Is lets errors.Is(err, seederr.ErrDuplicateSlug) ask whether any violation
// carries that code.
func (e *ValidationError) Is(target error) bool {
	return lo.SomeBy(e.Violations, func(v *Violation) bool {
		return v.Err.Is(target)
	})
}
