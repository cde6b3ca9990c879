// Package libfunc knows which library routines are free of side effects, so that calls to them
// can be treated as plain expressions.
package libfunc

import "sort"

// Table maps routine names to their purity. The zero value knows no routine.
type Table struct {
	pure map[string]bool
}

// defaultPure are the math routines of libm/libc which only compute their result from their arguments.
var defaultPure = []string{
	"abs", "labs", "llabs",
	"fabs", "sqrt", "cbrt", "hypot",
	"sin", "cos", "tan", "asin", "acos", "atan", "atan2",
	"sinh", "cosh", "tanh", "asinh", "acosh", "atanh",
	"exp", "exp2", "expm1", "log", "log2", "log10", "log1p", "pow",
	"floor", "ceil", "trunc", "round", "rint", "nearbyint",
	"fmin", "fmax", "fmod", "fdim", "copysign",
}

// Default returns a Table with the built-in pure routines, their single-precision
// `f` suffixed variants included.
func Default() *Table {
	t := New()
	for _, name := range defaultPure {
		t.Set(name, true)
		t.Set(name+"f", true)
	}
	return t
}

// New returns an empty Table.
func New() *Table {
	return &Table{pure: make(map[string]bool)}
}

// Set records whether the routine named `name` is pure.
func (t *Table) Set(name string, pure bool) {
	if t.pure == nil {
		t.pure = make(map[string]bool)
	}
	t.pure[name] = pure
}

// Merge overlays the entries of `other` on `t`.
func (t *Table) Merge(other *Table) {
	for name, pure := range other.pure {
		t.Set(name, pure)
	}
}

// IsPure returns true only if `name` is known and marked pure.
func (t *Table) IsPure(name string) bool {
	return t.pure[name]
}

// Names returns the sorted names of the pure routines.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.pure))
	for name, pure := range t.pure {
		if pure {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
