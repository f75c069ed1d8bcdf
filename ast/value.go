package ast

import "fmt"

// Value is the result of applying one top-level grammar rule to a journal. It is one
// of Ignore, *Transaction, *Price, *AccountDirective, *Commodity or *Included.
type Value interface {
	parsedValue()
}

// Ignore stands for a blank line or a comment line.
type Ignore struct{}

// Included holds the values parsed from the file named by an include directive.
type Included struct {
	Pos    Position
	Path   string
	Values []Value
}

func (Ignore) parsedValue()            {}
func (*Included) parsedValue()         {}
func (*Transaction) parsedValue()      {}
func (*Price) parsedValue()            {}
func (*AccountDirective) parsedValue() {}
func (*Commodity) parsedValue()        {}

// Flatten splices the contents of every Included value into the sequence in place,
// depth first, so that no Included values remain.
func Flatten(values []Value) []Value {
	out := make([]Value, 0, len(values))
	var walk func([]Value)
	walk = func(vs []Value) {
		for _, v := range vs {
			if inc, ok := v.(*Included); ok {
				walk(inc.Values)
				continue
			}
			out = append(out, v)
		}
	}
	walk(values)
	return out
}

// ExtractError is returned when a value is not of the expected variant.
type ExtractError struct {
	Want string
	Got  Value
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("expected %s, got %T", e.Want, e.Got)
}

// Extract returns v as a T, or an ExtractError when v holds another variant.
func Extract[T Value](v Value) (T, error) {
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, &ExtractError{Want: fmt.Sprintf("%T", zero), Got: v}
	}
	return t, nil
}
