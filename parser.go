package defaults

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	ErrInvalidParser         = errors.New("invalid parser")
	ErrMultipleCommandGroups = errors.New("parser already has a command group")
	ErrDuplicateCommand      = errors.New("command already declared")
)

type ErrUnknownFlag struct {
	Flag string
}

func (e *ErrUnknownFlag) Error() string {
	return fmt.Sprintf("unknown flag: --%s", e.Flag)
}

type ErrUnknownCommand struct {
	Command string
	Parser  string
}

func (e *ErrUnknownCommand) Error() string {
	return fmt.Sprintf("unknown command '%s' for '%s'", e.Command, e.Parser)
}

type ErrRequiredFlagMissing struct {
	Flag string
}

func (e *ErrRequiredFlagMissing) Error() string {
	return fmt.Sprintf("required flag is missing: --%s", e.Flag)
}

type ErrMissingFlagValue struct {
	Flag string
}

func (e *ErrMissingFlagValue) Error() string {
	return fmt.Sprintf("flag requires a value: --%s", e.Flag)
}

// Parser is one node in a hierarchical CLI command tree: the root parser,
// or a verb declared through a [CommandGroup] of its parent. Each node owns
// its argument declarations, its attached argument groups, at most one
// command group of child verbs, and its current default values.
type Parser struct {
	name        string
	description string
	parent      *Parser
	registry    *Registry
	errWriter   io.Writer
	arguments   []*Argument
	argGroups   []*ArgumentGroup
	commands    *CommandGroup
	defaults    map[string]any
	pathIndex   map[string]*Parser
}

// NewParser creates a root parser node. The name is the program name used
// in usage output; it may be empty.
func NewParser(name, description string) *Parser {
	p := &Parser{
		name:        name,
		description: description,
		registry:    newRegistry(),
		errWriter:   os.Stderr,
		defaults:    map[string]any{},
	}
	p.pathIndex = map[string]*Parser{"": p}
	return p
}

func (p *Parser) root() *Parser {
	node := p
	for node.parent != nil {
		node = node.parent
	}
	return node
}

// Registry returns the converter registry shared by the whole tree.
func (p *Parser) Registry() *Registry {
	return p.root().registry
}

// SetOutput redirects usage and error output of strict parses for the
// whole tree. The default is os.Stderr.
func (p *Parser) SetOutput(w io.Writer) {
	p.root().errWriter = w
}

// AddArgument declares a flag on this node.
func (p *Parser) AddArgument(arg *Argument) error {
	return p.declareArgument(arg, &p.arguments)
}

func (p *Parser) declareArgument(arg *Argument, target *[]*Argument) error {
	if err := arg.validate(p.Registry()); err != nil {
		return err
	}
	for _, other := range p.ownArguments() {
		if other.Flag == arg.Flag {
			return fmt.Errorf("%w: --%s", ErrDuplicateArgument, arg.Flag)
		} else if other.Dest == arg.Dest {
			return fmt.Errorf("%w: destination '%s' taken by --%s", ErrDuplicateArgument, arg.Dest, other.Flag)
		}
	}
	*target = append(*target, arg)
	if arg.Default != nil {
		p.defaults[arg.Dest] = arg.Default
	}
	return nil
}

// AddArgumentGroup attaches a named argument group to this node. Arguments
// declared on the group live in the node's namespace and are included in
// its destination collection; the group only exists as a declaration unit.
func (p *Parser) AddArgumentGroup(title string) *ArgumentGroup {
	group := &ArgumentGroup{title: title, owner: p}
	p.argGroups = append(p.argGroups, group)
	return group
}

// AddCommandGroup declares the group of child verbs of this node. The
// chosen verb name is stored under dest in the parse result. A node can
// hold at most one command group; resolution order for multiple sibling
// groups is undefined upstream, so a second group is rejected outright.
func (p *Parser) AddCommandGroup(dest string) (*CommandGroup, error) {
	if dest == "" {
		return nil, fmt.Errorf("%w: empty command group destination", ErrInvalidParser)
	} else if p.commands != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrMultipleCommandGroups, p.commands.dest)
	}
	p.commands = &CommandGroup{dest: dest, owner: p}
	return p.commands, nil
}

// SetDefaults installs the given destination-to-value pairs as this node's
// default values in one batch, replacing previous defaults per destination.
func (p *Parser) SetDefaults(values map[string]any) {
	for dest, v := range values {
		p.defaults[dest] = v
	}
}

// Defaults returns a copy of this node's current default values.
func (p *Parser) Defaults() map[string]any {
	view := make(map[string]any, len(p.defaults))
	for dest, v := range p.defaults {
		view[dest] = v
	}
	return view
}

// ownArguments returns the node's arguments, including those of attached
// argument groups but not those of child verbs.
func (p *Parser) ownArguments() []*Argument {
	args := append([]*Argument(nil), p.arguments...)
	for _, group := range p.argGroups {
		args = append(args, group.arguments...)
	}
	return args
}

// Destinations maps this node's flag names to their destinations, own
// arguments and attached argument groups included.
func (p *Parser) Destinations() map[string]string {
	dests := make(map[string]string)
	for _, arg := range p.ownArguments() {
		dests[arg.Flag] = arg.Dest
	}
	return dests
}

// kinds maps this node's destinations to their inferred value shapes.
func (p *Parser) kinds() map[string]Kind {
	kinds := make(map[string]Kind)
	for _, arg := range p.ownArguments() {
		kinds[arg.Dest] = arg.kind
	}
	return kinds
}

// findArgument resolves a flag name against this node and its ancestors,
// nearest declaration first, so flags of outer levels remain usable after
// a verb has been selected.
func (p *Parser) findArgument(flag string) *Argument {
	for node := p; node != nil; node = node.parent {
		for _, arg := range node.ownArguments() {
			if arg.Flag == flag {
				return arg
			}
		}
	}
	return nil
}

// ArgumentGroup is a declaration unit for arguments that belong to a
// parser node's namespace but are presented together in help output.
type ArgumentGroup struct {
	title     string
	owner     *Parser
	arguments []*Argument
}

func (g *ArgumentGroup) AddArgument(arg *Argument) error {
	return g.owner.declareArgument(arg, &g.arguments)
}

// CommandGroup holds the child verbs of a parser node.
type CommandGroup struct {
	dest     string
	owner    *Parser
	commands []*Parser
}

// AddParser declares a child verb and returns its parser node. Verb names
// must be unique among siblings.
func (g *CommandGroup) AddParser(name, description string) (*Parser, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty command name", ErrInvalidParser)
	} else if g.find(name) != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrDuplicateCommand, name)
	}
	child := &Parser{
		name:        name,
		description: description,
		parent:      g.owner,
		defaults:    map[string]any{},
	}
	g.commands = append(g.commands, child)
	root := g.owner.root()
	root.pathIndex[strings.Join(child.verbPath(), ".")] = child
	return child, nil
}

// Commands returns the declared child verbs in declaration order.
func (g *CommandGroup) Commands() []*Parser {
	return append([]*Parser(nil), g.commands...)
}

// Dest returns the destination the chosen verb name is stored under.
func (g *CommandGroup) Dest() string {
	return g.dest
}

func (g *CommandGroup) find(name string) *Parser {
	for _, cmd := range g.commands {
		if cmd.name == name {
			return cmd
		}
	}
	return nil
}

type parseMode int

const (
	strictMode parseMode = iota
	lenientMode
)

// ParseArgs parses the given CLI arguments against this node and its verb
// tree. Unknown flags, unknown verbs, missing required flags and failed
// value conversions are errors; the error and a usage line are written to
// the configured output before the error is returned. Explicit CLI values
// always override installed defaults.
func (p *Parser) ParseArgs(argv []string) (*Result, error) {
	result := newResult()
	if _, err := p.parse(argv, result, strictMode); err != nil {
		return nil, err
	}
	return result, nil
}

// ParseKnownArgs parses the given CLI arguments best-effort: unknown flags
// and flags missing their value are collected as leftovers, failed value
// conversions leave the destination unset, required flags are not
// enforced, and nothing is written to the configured output.
func (p *Parser) ParseKnownArgs(argv []string) (*Result, []string) {
	result := newResult()
	leftovers, _ := p.parse(argv, result, lenientMode)
	return result, leftovers
}

func (p *Parser) parse(argv []string, result *Result, mode parseMode) ([]string, error) {
	// Fill this node's defaults for destinations not explicitly set yet
	for dest, v := range p.defaults {
		if !result.explicit[dest] {
			result.values[dest] = v
		}
	}

	var leftovers []string
	i := 0
	for i < len(argv) {
		token := argv[i]
		if token == "--" {
			result.positionals = append(result.positionals, argv[i+1:]...)
			break
		}

		if strings.HasPrefix(token, "-") && token != "-" {
			name := strings.TrimLeft(token, "-")
			var inline *string
			if eq := strings.IndexByte(name, '='); eq >= 0 {
				v := name[eq+1:]
				inline = &v
				name = name[:eq]
			}
			arg := p.findArgument(name)
			if arg == nil {
				if mode == strictMode {
					return nil, p.fail(&ErrUnknownFlag{Flag: name})
				}
				leftovers = append(leftovers, token)
				i++
				continue
			}

			if !arg.hasValue() {
				if inline != nil {
					if mode == strictMode {
						return nil, p.fail(&ErrInvalidValue{Cause: fmt.Errorf("flag takes no value"), Value: *inline, Flag: arg.Flag})
					}
					leftovers = append(leftovers, token)
					i++
					continue
				}
				result.set(arg.Dest, arg.Action == ActionStoreTrue)
				i++
				continue
			}

			tokens, next, err := p.collectValues(arg, inline, argv, i)
			if err != nil {
				if mode == strictMode {
					return nil, p.fail(err)
				}
				leftovers = append(leftovers, token)
				i++
				continue
			}
			i = next

			values, err := p.convertValues(arg, tokens)
			if err != nil {
				if mode == strictMode {
					return nil, p.fail(err)
				}
				// Lenient parses only need verb selection; a value that the
				// real converter rejects just leaves the destination unset.
				continue
			}
			p.storeValues(result, arg, values)
			continue
		}

		// Positional token: either a verb of this node's command group, or
		// a plain positional argument.
		if p.commands != nil {
			if child := p.commands.find(token); child != nil {
				result.set(p.commands.dest, token)
				childLeftovers, err := child.parse(argv[i+1:], result, mode)
				return append(leftovers, childLeftovers...), err
			}
			if mode == strictMode {
				return nil, p.fail(&ErrUnknownCommand{Command: token, Parser: p.fullName()})
			}
			leftovers = append(leftovers, token)
			i++
			continue
		}
		result.positionals = append(result.positionals, token)
		i++
	}

	// Required flags are checked for the whole selected chain once the
	// deepest node has consumed its tokens
	if mode == strictMode {
		for node := p; node != nil; node = node.parent {
			if err := node.checkRequired(result); err != nil {
				return nil, p.fail(err)
			}
		}
	}
	return leftovers, nil
}

// collectValues gathers the raw value tokens of one flag occurrence,
// returning them together with the index of the next unconsumed token.
func (p *Parser) collectValues(arg *Argument, inline *string, argv []string, i int) ([]string, int, error) {
	if inline != nil {
		return []string{*inline}, i + 1, nil
	}
	i++
	if arg.Arity == ArityOne || arg.Action == ActionAppend {
		if i >= len(argv) || p.stopsValues(argv[i]) {
			return nil, i, &ErrMissingFlagValue{Flag: arg.Flag}
		}
		return []string{argv[i]}, i + 1, nil
	}
	var tokens []string
	for i < len(argv) && !p.stopsValues(argv[i]) {
		tokens = append(tokens, argv[i])
		i++
	}
	if arg.Arity == ArityOneOrMore && len(tokens) == 0 {
		return nil, i, &ErrMissingFlagValue{Flag: arg.Flag}
	}
	return tokens, i, nil
}

// stopsValues reports whether a token terminates a repeated-value flag:
// another flag, the positionals separator, or a verb of this node.
func (p *Parser) stopsValues(token string) bool {
	if token == "--" || (strings.HasPrefix(token, "-") && token != "-") {
		return true
	}
	return p.commands != nil && p.commands.find(token) != nil
}

func (p *Parser) convertValues(arg *Argument, tokens []string) ([]any, error) {
	registry := p.Registry()
	values := make([]any, 0, len(tokens))
	for _, token := range tokens {
		v, err := arg.convert(registry, token)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (p *Parser) storeValues(result *Result, arg *Argument, values []any) {
	switch {
	case arg.Action == ActionAppend:
		existing, _ := result.values[arg.Dest].([]any)
		if !result.explicit[arg.Dest] {
			// The first occurrence starts a fresh list rather than
			// appending to an installed default
			existing = nil
		}
		result.set(arg.Dest, append(existing, values...))
	case arg.Arity == ArityZeroOrMore || arg.Arity == ArityOneOrMore:
		result.set(arg.Dest, values)
	default:
		result.set(arg.Dest, values[0])
	}
}

func (p *Parser) checkRequired(result *Result) error {
	for _, arg := range p.ownArguments() {
		if arg.Required && !result.Has(arg.Dest) {
			return &ErrRequiredFlagMissing{Flag: arg.Flag}
		}
	}
	return nil
}

// fail writes the error and this node's usage line to the configured
// output, then returns the error unchanged.
func (p *Parser) fail(err error) error {
	w := p.root().errWriter
	_, _ = fmt.Fprintln(w, err)
	_ = p.PrintUsageLine(w, terminalWidth())
	return err
}
