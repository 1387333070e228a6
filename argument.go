package defaults

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrDuplicateArgument = errors.New("argument already declared")
)

// Converter converts a single CLI token into a typed value.
type Converter func(string) (any, error)

// Names of the converters every parser tree starts with. Additional
// converters can be registered on the tree's [Registry] and referenced by
// name from [Argument.Type].
const (
	TypeString = "str"
	TypeStrip  = "strip"
	TypeInt    = "int"
)

type Action string

const (
	// ActionStore consumes a value and stores it under the destination.
	ActionStore Action = "store"
	// ActionStoreTrue stores true without consuming a value.
	ActionStoreTrue Action = "store-true"
	// ActionStoreFalse stores false without consuming a value.
	ActionStoreFalse Action = "store-false"
	// ActionAppend consumes a value and appends it to a list under the
	// destination, one element per occurrence of the flag.
	ActionAppend Action = "append"
)

type Arity int

const (
	// ArityOne consumes exactly one value per occurrence.
	ArityOne Arity = iota
	// ArityZeroOrMore consumes all values up to the next flag or verb.
	ArityZeroOrMore
	// ArityOneOrMore is like ArityZeroOrMore but requires at least one value.
	ArityOneOrMore
)

type ErrInvalidValue struct {
	Cause error
	Value string
	Flag  string
}

func (e *ErrInvalidValue) Error() string {
	return fmt.Sprintf("invalid value '%s' for flag '%s': %s", e.Value, e.Flag, e.Cause)
}

func (e *ErrInvalidValue) Unwrap() error {
	return e.Cause
}

// Argument declares a single flag of a [Parser] node.
//
// Flag is the user-facing spelling without leading dashes (e.g.
// "symlink-install"). Dest is the identifier the parsed value is stored
// under; when empty it is derived from Flag by replacing dashes with
// underscores. Type names a converter registered on the tree's [Registry];
// when empty, values are stored as plain strings.
type Argument struct {
	Flag        string
	Dest        string
	Type        string
	Action      Action
	Arity       Arity
	Default     any
	Description string
	Required    bool

	kind Kind
}

func (a *Argument) validate(registry *Registry) error {
	if a.Flag == "" {
		return fmt.Errorf("%w: empty flag name", ErrInvalidArgument)
	} else if strings.HasPrefix(a.Flag, "-") {
		return fmt.Errorf("%w: flag name '%s' must not include leading dashes", ErrInvalidArgument, a.Flag)
	}
	if a.Action == "" {
		a.Action = ActionStore
	}
	switch a.Action {
	case ActionStore, ActionAppend:
	case ActionStoreTrue, ActionStoreFalse:
		if a.Type != "" {
			return fmt.Errorf("%w: flag '%s' cannot combine action '%s' with a value type", ErrInvalidArgument, a.Flag, a.Action)
		} else if a.Arity != ArityOne {
			return fmt.Errorf("%w: flag '%s' cannot combine action '%s' with an arity", ErrInvalidArgument, a.Flag, a.Action)
		}
	default:
		return fmt.Errorf("%w: flag '%s' has unsupported action '%s'", ErrInvalidArgument, a.Flag, a.Action)
	}
	if a.Type != "" {
		if _, ok := registry.Lookup(a.Type); !ok {
			return fmt.Errorf("%w: flag '%s' references unregistered type '%s'", ErrInvalidArgument, a.Flag, a.Type)
		}
	}
	if a.Dest == "" {
		a.Dest = flagToDest(a.Flag)
	}
	a.kind = inferKind(a.Type, a.Action, a.Arity)
	return nil
}

// hasValue reports whether the flag consumes a value from the command line.
func (a *Argument) hasValue() bool {
	return a.Action != ActionStoreTrue && a.Action != ActionStoreFalse
}

// convert translates a raw CLI token through the argument's declared
// converter, if any.
func (a *Argument) convert(registry *Registry, token string) (any, error) {
	if a.Type == "" {
		return token, nil
	}
	conv, ok := registry.Lookup(a.Type)
	if !ok {
		return nil, &ErrInvalidValue{Cause: fmt.Errorf("unregistered type '%s'", a.Type), Value: token, Flag: a.Flag}
	}
	v, err := conv(token)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) {
			return nil, &ErrInvalidValue{Cause: ne.Err, Value: ne.Num, Flag: a.Flag}
		}
		return nil, &ErrInvalidValue{Cause: err, Value: token, Flag: a.Flag}
	}
	return v, nil
}
