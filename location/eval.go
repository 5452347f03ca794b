package location

import "fmt"

// UndefinedError is raised when evaluating a Location encounters a missing
// key or index. Location carries the deepest-defined prefix augmented by
// the first missing step, per spec §4.1 — never the full original
// location. This is the signal the stepper uses to find a question that
// can provide the missing piece (spec §4.7).
type UndefinedError struct {
	Location Location
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined location: %s", e.Location)
}

// TypeError is raised when a Location traversal hits a value of the wrong
// shape: an index applied to a non-list/map, an attribute access on a
// non-map, or an index that evaluates to something other than int/string.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return e.Msg }

// Evaluate traverses ctx following loc, returning the value found or an
// *UndefinedError / *TypeError.
func Evaluate(loc Location, ctx map[string]any) (any, error) {
	switch l := loc.(type) {
	case Const:
		return l.Value, nil

	case Name:
		v, ok := ctx[l.Name]
		if !ok {
			return nil, &UndefinedError{Location: l}
		}
		return v, nil

	case AttributeAccess:
		target, err := Evaluate(l.Target, ctx)
		if err != nil {
			return nil, err
		}
		m, ok := target.(map[string]any)
		if !ok {
			return nil, &TypeError{Msg: fmt.Sprintf("not a map: %s", l.Target)}
		}
		v, ok := m[l.Attribute]
		if !ok {
			return nil, &UndefinedError{Location: l}
		}
		return v, nil

	case IndexAccess:
		idx, err := Evaluate(l.Index, ctx)
		if err != nil {
			return nil, err
		}
		key, err := asIndexKey(idx)
		if err != nil {
			return nil, err
		}
		target, err := Evaluate(l.Target, ctx)
		if err != nil {
			return nil, err
		}
		v, err := getIndex(target, key)
		if err != nil {
			if _, ok := err.(*missingIndexError); ok {
				return nil, &UndefinedError{Location: IndexAccess{Target: l.Target, Index: Const{Value: key}}}
			}
			return nil, err
		}
		return v, nil

	default:
		return nil, &TypeError{Msg: fmt.Sprintf("unknown location variant: %T", loc)}
	}
}

// asIndexKey validates that an evaluated index is an int or string, per
// spec §4.1 ("index terms evaluate to int or str only").
func asIndexKey(v any) (any, error) {
	switch v.(type) {
	case int, string:
		return v, nil
	default:
		return nil, &TypeError{Msg: fmt.Sprintf("invalid index type: %v", v)}
	}
}

type missingIndexError struct{ key any }

func (e *missingIndexError) Error() string { return fmt.Sprintf("missing index: %v", e.key) }

func getIndex(target any, key any) (any, error) {
	switch t := target.(type) {
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return nil, &TypeError{Msg: fmt.Sprintf("map requires a string index, got %v", key)}
		}
		v, ok := t[k]
		if !ok {
			return nil, &missingIndexError{key: key}
		}
		return v, nil
	case []any:
		i, ok := key.(int)
		if !ok {
			return nil, &TypeError{Msg: fmt.Sprintf("list requires an int index, got %v", key)}
		}
		if i < 0 || i >= len(t) {
			return nil, &missingIndexError{key: key}
		}
		return t[i], nil
	default:
		return nil, &TypeError{Msg: fmt.Sprintf("not a map/list: %v", target)}
	}
}

func setIndex(target any, key any, value any) error {
	switch t := target.(type) {
	case map[string]any:
		k, ok := key.(string)
		if !ok {
			return &TypeError{Msg: fmt.Sprintf("map requires a string index, got %v", key)}
		}
		t[k] = value
		return nil
	case []any:
		i, ok := key.(int)
		if !ok {
			return &TypeError{Msg: fmt.Sprintf("list requires an int index, got %v", key)}
		}
		if i < 0 || i >= len(t) {
			return &TypeError{Msg: fmt.Sprintf("index out of range: %d", i)}
		}
		t[i] = value
		return nil
	default:
		return &TypeError{Msg: fmt.Sprintf("not a map/list: %v", target)}
	}
}

// Assign writes value at loc within ctx. The target of the final step must
// already exist as a map/list; for lists the index must be in range. The
// root form Name(k) creates or overwrites ctx[k].
//
// Assigning through a Const, or to a Location whose root is itself a Const,
// is an error (spec §3: "a Location that appears as a set target must not
// contain a Const at the root").
func Assign(loc Location, value any, ctx map[string]any) error {
	switch l := loc.(type) {
	case Const:
		return &TypeError{Msg: "cannot assign to a constant"}

	case Name:
		ctx[l.Name] = value
		return nil

	case AttributeAccess:
		target, err := Evaluate(l.Target, ctx)
		if err != nil {
			return err
		}
		m, ok := target.(map[string]any)
		if !ok {
			return &TypeError{Msg: fmt.Sprintf("not a map: %s", l.Target)}
		}
		m[l.Attribute] = value
		return nil

	case IndexAccess:
		idx, err := Evaluate(l.Index, ctx)
		if err != nil {
			return err
		}
		key, err := asIndexKey(idx)
		if err != nil {
			return err
		}
		target, err := Evaluate(l.Target, ctx)
		if err != nil {
			return err
		}
		return setIndex(target, key, value)

	default:
		return &TypeError{Msg: fmt.Sprintf("unknown location variant: %T", loc)}
	}
}

// EvaluateIndexes rewrites all non-const index terms into Const(value)
// using Evaluate, producing the canonical form used to compare/lookup a
// Location under a concrete context (spec §4.1, §4.5).
func EvaluateIndexes(loc Location, ctx map[string]any) (Location, error) {
	switch l := loc.(type) {
	case IndexAccess:
		idx, err := Evaluate(l.Index, ctx)
		if err != nil {
			return nil, err
		}
		key, err := asIndexKey(idx)
		if err != nil {
			return nil, err
		}
		target, err := EvaluateIndexes(l.Target, ctx)
		if err != nil {
			return nil, err
		}
		return IndexAccess{Target: target, Index: Const{Value: key}}, nil

	case AttributeAccess:
		target, err := EvaluateIndexes(l.Target, ctx)
		if err != nil {
			return nil, err
		}
		return AttributeAccess{Target: target, Attribute: l.Attribute}, nil

	default:
		return loc, nil
	}
}
