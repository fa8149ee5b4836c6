/*
Package objwrap provides a generic, schema-fixed wrapper around a
string-keyed mapping.

# Overview

A Wrapper owns a private copy of the mapping it was built from. The key set
given at construction is the schema: Set can change the value of an existing
key but never adds one. Every method that exposes state returns a copy, so
callers never share backing storage with the wrapper.

# Basic Usage

	w := objwrap.New(map[string]string{"a": "01", "b": "02"})

	w.Set("c", "03") // false: "c" is not in the schema
	w.Set("b", "04") // true

	v, ok := w.Get("b") // "04", true
	_, ok = w.Get("c")  // "", false

	keys := w.FindKeys("04") // ["b"]

# Iteration Order

Go maps have no insertion order, so New orders keys lexically. Use
NewOrdered to keep an explicit order, for example the order of keys in a
document:

	w := objwrap.NewOrdered([]objwrap.Entry[string]{
	    {Key: "b", Value: "02"},
	    {Key: "a", Value: "01"},
	})
	w.Keys() // ["b", "a"]

FindKeys, Entries, All and MarshalJSON follow this order.

# Equality

FindKeys compares values with ==. Values are copied one level deep; nested
maps or slices held in a Wrapper[any] are shared with the caller and never
match a FindKeys query.

# Thread Safety

A Wrapper is not safe for concurrent use. Callers sharing one across
goroutines must synchronize access themselves.
*/
package objwrap
