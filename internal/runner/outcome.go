// Package runner drives the per-item network work of the submit and fetch
// commands. Items are processed one at a time, in input order; a failure on
// one item is recorded in its Outcome and never stops the loop.
package runner

// Outcome is the result of processing one item. Err is nil on success.
type Outcome[T any] struct {
	Item  string
	Value T
	Err   error
}

// OK reports whether the item succeeded.
func (o Outcome[T]) OK() bool {
	return o.Err == nil
}

// Succeeded returns the values of the successful outcomes, in order.
func Succeeded[T any](outcomes []Outcome[T]) []T {
	var out []T
	for _, o := range outcomes {
		if o.OK() {
			out = append(out, o.Value)
		}
	}
	return out
}

// Failed returns the items whose outcome carries an error.
func Failed[T any](outcomes []Outcome[T]) []string {
	var out []string
	for _, o := range outcomes {
		if !o.OK() {
			out = append(out, o.Item)
		}
	}
	return out
}
