package defaults

import "strings"

// verbPath returns the ordered verb names from the root to this node. The
// root itself has an empty path.
func (p *Parser) verbPath() []string {
	var path []string
	for node := p; node.parent != nil; node = node.parent {
		path = append([]string{node.name}, path...)
	}
	return path
}

// fullName returns the names of all nodes from the root to this node,
// space-separated, for usage output.
func (p *Parser) fullName() string {
	var fullName string
	for node := p; node != nil; node = node.parent {
		if fullName != "" {
			fullName = " " + fullName
		}
		fullName = node.name + fullName
	}
	return strings.TrimSpace(fullName)
}

// Lookup resolves a verb path to its parser node. The index is maintained
// as verbs are declared, so lookups are reads of a prebuilt mapping; an
// empty path yields the root. Lookup must be called on the root node.
func (p *Parser) Lookup(path ...string) (*Parser, bool) {
	node, ok := p.root().pathIndex[strings.Join(path, ".")]
	return node, ok
}

// walkTree visits this node and every node below it, depth-first, passing
// each node's verb path. Read-only.
func (p *Parser) walkTree(visit func(path []string, node *Parser)) {
	visit(p.verbPath(), p)
	if p.commands != nil {
		for _, child := range p.commands.commands {
			child.walkTree(visit)
		}
	}
}
