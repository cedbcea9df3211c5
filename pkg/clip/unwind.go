// ABOUTME: Ordered cleanup stack for partially acquired resources
// ABOUTME: Releases in reverse acquisition order and aggregates errors
package clip

import (
	"fmt"

	"go.uber.org/multierr"
)

type release struct {
	name string
	fn   func() error
}

// unwinder records resources as they are acquired
type unwinder struct {
	steps []release
}

func (u *unwinder) push(name string, fn func() error) {
	u.steps = append(u.steps, release{name: name, fn: fn})
}

// unwind releases everything pushed so far, newest first, and empties the stack
func (u *unwinder) unwind() error {
	var err error
	for i := len(u.steps) - 1; i >= 0; i-- {
		r := u.steps[i]
		if rerr := r.fn(); rerr != nil {
			err = multierr.Append(err, fmt.Errorf("failed to release %s: %w", r.name, rerr))
		}
	}
	u.steps = nil
	return err
}

// names lists the pushed resources in acquisition order
func (u *unwinder) names() []string {
	names := make([]string, len(u.steps))
	for i, r := range u.steps {
		names[i] = r.name
	}
	return names
}
