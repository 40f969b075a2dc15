// Package jsontree provides a typed representation of arbitrary JSON and
// hint-based finders that search it without a schema.
//
// Upstream payloads change shape across endpoints, locales and over time, so
// extraction code never addresses fields by position. Instead it walks the
// tree breadth-first and takes the first value whose key contains one of a
// set of hint tokens. Traversal order is therefore part of the contract:
// object members are visited before deeper levels, in insertion order, and
// array items in index order.
package jsontree

// Value is one node of a JSON tree. The concrete types are Null, Bool,
// Number, String, *Array and *Object.
type Value interface {
	isValue()
}

// Null is the JSON null literal.
type Null struct{}

// Bool is a JSON boolean.
type Bool bool

// Number is a JSON number.
type Number float64

// String is a JSON string.
type String string

// Array is a JSON array. Arrays are handled by pointer so that the walker can
// track identity.
type Array struct {
	Items []Value
}

// Member is one key/value pair of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is a JSON object with members kept in document order.
type Object struct {
	Members []Member
}

func (Null) isValue()    {}
func (Bool) isValue()    {}
func (Number) isValue()  {}
func (String) isValue()  {}
func (*Array) isValue()  {}
func (*Object) isValue() {}

// Get returns the value of the first member named key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Set appends a member, or replaces the value of an existing one.
func (o *Object) Set(key string, v Value) {
	for i, m := range o.Members {
		if m.Key == key {
			o.Members[i].Value = v
			return
		}
	}
	o.Members = append(o.Members, Member{Key: key, Value: v})
}

// ObjectCount reports how many items of the array are objects.
func (a *Array) ObjectCount() int {
	if a == nil {
		return 0
	}
	n := 0
	for _, item := range a.Items {
		if _, ok := item.(*Object); ok {
			n++
		}
	}
	return n
}

// AsObject returns v as an object.
func AsObject(v Value) (*Object, bool) {
	o, ok := v.(*Object)
	return o, ok && o != nil
}

// AsArray returns v as an array.
func AsArray(v Value) (*Array, bool) {
	a, ok := v.(*Array)
	return a, ok && a != nil
}

// AsString returns v as a Go string.
func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

// AsNumber returns v as a float64.
func AsNumber(v Value) (float64, bool) {
	n, ok := v.(Number)
	return float64(n), ok
}
