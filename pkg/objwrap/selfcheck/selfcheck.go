// Package selfcheck runs the reference scenarios for objwrap.Wrapper and
// reports them as OK/NG lines.
package selfcheck

import (
	"fmt"
	"io"
	"slices"

	"github.com/randalmurphal/objwrap/pkg/objwrap"
)

// Result is the outcome of one scenario.
type Result struct {
	Name string
	OK   bool
}

// String formats the result as "OK: <name>" or "NG: <name>".
func (r Result) String() string {
	if r.OK {
		return "OK: " + r.Name
	}
	return "NG: " + r.Name
}

// Run executes the set, get and findKeys scenarios in order.
func Run(opts ...objwrap.Option) []Result {
	w := objwrap.New(map[string]string{"a": "01", "b": "02"}, opts...)

	setOK := !w.Set("c", "03") && w.Set("b", "04")

	b, bFound := w.Get("b")
	_, cFound := w.Get("c")
	getOK := bFound && b == "04" && !cFound

	w2 := objwrap.New(map[string]string{"a": "01", "b": "02", "bb": "02", "bbb": "02"}, opts...)
	keys := w2.FindKeys("02")
	findOK := len(w2.FindKeys("03")) == 0 &&
		slices.Contains(keys, "b") &&
		slices.Contains(keys, "bb") &&
		slices.Contains(keys, "bbb") &&
		len(keys) == 3

	return []Result{
		{Name: "set(key, val)", OK: setOK},
		{Name: "get(key)", OK: getOK},
		{Name: "findKeys(val)", OK: findOK},
	}
}

// Report writes passing results to out and failing ones to errOut, one per
// line, and returns the number of failures.
func Report(results []Result, out, errOut io.Writer) int {
	failed := 0
	for _, r := range results {
		if r.OK {
			fmt.Fprintln(out, r)
			continue
		}
		failed++
		fmt.Fprintln(errOut, r)
	}
	return failed
}
