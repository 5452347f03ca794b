// Package location implements the variable-location language used inside
// interview definitions: paths like a.b[c], with parse, evaluate, and
// assign semantics over nested maps and lists.
package location

import "fmt"

// Location is a parsed variable path. The concrete variants are Name,
// IndexAccess, AttributeAccess, and Const. Const only ever appears as an
// evaluated index literal; it is never produced by Parse.
type Location interface {
	fmt.Stringer
	isLocation()
}

// Name is a top-level identifier, e.g. "a".
type Name struct {
	Name string
}

// IndexAccess is a subscript, e.g. "a[b]". Index is itself a Location so
// that index expressions may reference other variables (a[b]) as well as
// integer literals (a[0]).
type IndexAccess struct {
	Target Location
	Index  Location
}

// AttributeAccess is a dotted member, e.g. "a.b".
type AttributeAccess struct {
	Target    Location
	Attribute string
}

// Const is a literal int or string, produced only by EvaluateIndexes when
// normalizing a Location's index terms for comparison.
type Const struct {
	Value any // int or string
}

func (Name) isLocation()            {}
func (IndexAccess) isLocation()     {}
func (AttributeAccess) isLocation() {}
func (Const) isLocation()           {}

func (n Name) String() string { return n.Name }

func (a AttributeAccess) String() string {
	return fmt.Sprintf("%s.%s", a.Target, a.Attribute)
}

func (i IndexAccess) String() string {
	return fmt.Sprintf("%s[%s]", i.Target, i.Index)
}

func (c Const) String() string {
	switch v := c.Value.(type) {
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Key returns the canonical string form used as a map key when Location
// values are compared, e.g. by a QuestionBank lookup or a Question's
// provides set. Two Locations that parse to the
// same structure produce the same Key regardless of source whitespace.
func Key(loc Location) string {
	return loc.String()
}

// Equal reports whether two Locations are structurally identical.
func Equal(a, b Location) bool {
	return a.String() == b.String()
}
