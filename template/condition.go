package template

// Condition is a sequence of expressions combined by logical AND (spec
// §4.2). An empty Condition always matches — the zero value is the
// "always true" condition, matching a Step with no `when` at all.
type Condition []Expr

// ParseCondition accepts either a single expression string or a list of
// expression strings, matching the interview config's `when: <expr>` /
// `when: [<expr>, ...]` shorthand.
func ParseCondition(exprs ...string) (Condition, error) {
	c := make(Condition, 0, len(exprs))
	for _, s := range exprs {
		e, err := Parse(s)
		if err != nil {
			return nil, err
		}
		c = append(c, e)
	}
	return c, nil
}

// And returns a new Condition combining c with more, without mutating
// either — used when flattening a Block's own `when` into its children's
// (spec §4.6, Block flattening composes by conjunction).
func (c Condition) And(more Condition) Condition {
	out := make(Condition, 0, len(c)+len(more))
	out = append(out, c...)
	out = append(out, more...)
	return out
}

// Matches evaluates every expression in order and returns their logical
// AND. It stops and returns the first error, including an
// *location.UndefinedError from a not-yet-known variable — callers (the
// stepper) interpret that as "this condition can't be decided yet".
func (c Condition) Matches(ctx map[string]any) (bool, error) {
	for _, e := range c {
		v, err := e.Eval(ctx)
		if err != nil {
			return false, err
		}
		if !ToBool(v) {
			return false, nil
		}
	}
	return true, nil
}
