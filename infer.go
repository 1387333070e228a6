package defaults

// Kind is the coarse value shape inferred for a destination from its
// declared converter, action and arity. It is derived once when the
// argument is declared and drives validation of configured default values.
type Kind int

const (
	// KindUnknown means no definite shape could be inferred; validation of
	// configured values for such destinations is skipped entirely.
	KindUnknown Kind = iota
	KindString
	KindInt
	KindBool
	KindStringList
	KindIntList
	// KindList is a sequence whose element shape is itself unknown; any
	// sequence is accepted for it.
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindStringList:
		return "list of strings"
	case KindIntList:
		return "list of integers"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// elem returns the element kind of a list kind, or KindUnknown.
func (k Kind) elem() Kind {
	switch k {
	case KindStringList:
		return KindString
	case KindIntList:
		return KindInt
	default:
		return KindUnknown
	}
}

// inferKind derives the value shape for an argument. Repetition wins over
// everything else, then boolean actions, then the converter name; an
// argument with no converter at all holds plain strings. Unrecognized
// converters degrade to KindUnknown (or KindList under repetition) rather
// than failing.
func inferKind(typeName string, action Action, arity Arity) Kind {
	if arity == ArityZeroOrMore || arity == ArityOneOrMore || action == ActionAppend {
		switch typeName {
		case "", TypeString, TypeStrip:
			return KindStringList
		case TypeInt:
			return KindIntList
		default:
			return KindList
		}
	}
	if action == ActionStoreTrue || action == ActionStoreFalse {
		return KindBool
	}
	switch typeName {
	case "", TypeString, TypeStrip:
		return KindString
	case TypeInt:
		return KindInt
	default:
		return KindUnknown
	}
}
