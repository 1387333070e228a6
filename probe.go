package defaults

// probe runs a best-effort parse of argv to discover which verbs the user
// selected. Every registered converter is swapped for an identity
// pass-through for the duration of the parse and restored on every exit
// path: converters may be expensive, may have side effects, or may reject
// partial input, and the probe only needs the chosen verb names. The
// lenient parse writes nothing to the configured output.
func (d *Decorator) probe(argv []string) *Result {
	guard := d.root.Registry().SwapAll(func(s string) (any, error) { return s, nil })
	defer guard.Restore()

	result, _ := d.root.ParseKnownArgs(argv)
	return result
}

type resolutionStep struct {
	path []string
	node *Parser
}

// resolutionWalk turns probe output into the ordered list of nodes whose
// defaults must be resolved: the root first, then one node per selected
// verb, stopping at the first level whose command group received no value.
func (d *Decorator) resolutionWalk(probed *Result) []resolutionStep {
	steps := []resolutionStep{{node: d.root}}
	node := d.root
	var path []string
	for node.commands != nil {
		verb := probed.String(node.commands.dest)
		if verb == "" {
			break
		}
		extended := append(append([]string(nil), path...), verb)
		child, ok := d.root.Lookup(extended...)
		if !ok {
			break
		}
		steps = append(steps, resolutionStep{path: extended, node: child})
		node = child
		path = extended
	}
	return steps
}
