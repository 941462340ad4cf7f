// Package invariant provides a small debug-assertion helper for the
// graph- and fact-consistency faults spec.md §7 calls "programming
// errors... caught by assertions in debug builds" — negative usage
// counts, dangling successors, and the like. It is never wired into a
// production Optimize call path; tests call it directly after running a
// pass to check the invariants spec.md §8 names.
package invariant

import "fmt"

// Violation describes one failed invariant.
type Violation struct {
	What string
}

func (v *Violation) Error() string { return fmt.Sprintf("invariant violated: %s", v.What) }

// Check returns a *Violation if cond is false, nil otherwise, so callers
// can accumulate failures: `if v := invariant.Check(x >= 0, "usages >= 0"); v != nil { ... }`.
func Check(cond bool, what string) error {
	if cond {
		return nil
	}
	return &Violation{What: what}
}
