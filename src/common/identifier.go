package common

// Identifier is an interned-by-value program name: a variable, field, type,
// lifetime, or callable name. It is comparable so it can key maps directly.
type Identifier struct {
	Value string
}

var IgnoreIdent = Identifier{Value: "_"}

// ThisLifetime is the lifetime implicitly declared by every
// FunctionOrMethodScope (spec §4.7).
var ThisLifetime = Identifier{Value: "this"}

func NewIdentifier(name string) Identifier {
	return Identifier{Value: name}
}

func (i Identifier) String() string {
	return i.Value
}

func (i Identifier) IsIgnore() bool {
	return i.Value == "_"
}
