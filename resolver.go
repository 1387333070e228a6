package defaults

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
)

var ErrNotRoot = errors.New("parser is not a root parser")

// Decorator wraps a root parser and augments its ParseArgs with default
// values resolved from the application's defaults file. The wrapped parser
// keeps its full contract: same arguments, same result shape, same errors
// on genuinely invalid input; the decorator only changes what "default"
// means before the explicit-arguments-win rule runs.
type Decorator struct {
	root       *Parser
	appName    string
	logger     *slog.Logger
	configPath string
	environ    map[string]string
}

type DecoratorOption func(*Decorator)

// WithLogger replaces the logger used for resolution diagnostics. The
// default is slog.Default().
func WithLogger(logger *slog.Logger) DecoratorOption {
	return func(d *Decorator) { d.logger = logger }
}

// WithConfigPath pins the defaults file location, bypassing the
// environment override and the platform configuration home.
func WithConfigPath(path string) DecoratorOption {
	return func(d *Decorator) { d.configPath = path }
}

// WithEnviron replaces the environment variables consulted for the
// defaults file override. The default is the process environment.
func WithEnviron(environ map[string]string) DecoratorOption {
	return func(d *Decorator) { d.environ = environ }
}

// NewDecorator wraps the given root parser for the named application. We
// insist on getting the root node, since resolution must see the whole
// verb tree.
func NewDecorator(root *Parser, appName string, opts ...DecoratorOption) (*Decorator, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil parser", ErrInvalidParser)
	} else if root.parent != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrNotRoot, root.fullName())
	} else if appName == "" {
		return nil, fmt.Errorf("%w: empty application name", ErrInvalidParser)
	}
	d := &Decorator{
		root:    root,
		appName: appName,
		logger:  slog.Default(),
		environ: EnvVarsArrayToMap(os.Environ()),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// ParseArgs resolves defaults for the invocation's verb path and then runs
// the real parse, returning its result unchanged.
func (d *Decorator) ParseArgs(argv []string) (*Result, error) {
	steps := d.resolutionWalk(d.probe(argv))

	path := d.configPath
	if path == "" {
		if resolved, err := configFilePath(d.appName, d.environ); err != nil {
			d.logger.Warn("cannot resolve defaults file location", slog.Any("error", err))
		} else {
			path = resolved
		}
	}
	doc := map[string]any{}
	if path != "" {
		doc = loadDocument(path, d.logger)
	}

	for _, step := range steps {
		if len(step.path) == 0 {
			d.resolve(step.node, nil, doc)
			continue
		}
		if sub, ok := subDocument(doc, step.path); ok {
			d.resolve(step.node, step.path, sub)
		}
	}

	return d.root.ParseArgs(argv)
}

// subDocument navigates the nested mapping one verb-path segment at a
// time. A missing segment means no configuration for that branch; a
// non-mapping intermediate value was already warned about when its own
// level was resolved, so the deeper branch is skipped silently.
func subDocument(doc map[string]any, path []string) (any, bool) {
	var current any = doc
	for _, segment := range path {
		mapping, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = mapping[segment]; !ok {
			return nil, false
		}
	}
	return current, true
}

// resolve installs validated configuration values as the node's defaults.
// Each failure skips only its own key; sibling keys and branches are
// unaffected.
func (d *Decorator) resolve(node *Parser, path []string, sub any) {
	verb := strings.Join(path, ".")
	mapping, ok := sub.(map[string]any)
	if !ok {
		d.logger.Warn("configuration for verb is not a mapping", slog.String("verb", verb), slog.Any("value", sub))
		return
	}

	dests := node.Destinations()
	kinds := node.kinds()

	keys := make([]string, 0, len(mapping))
	for key := range mapping {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pending := map[string]any{}
	var unknown []string
	for _, key := range keys {
		if node.commands != nil && node.commands.find(key) != nil {
			// Configuration for a child verb, resolved at its own level
			continue
		}
		dest, known := dests[key]
		if !known {
			unknown = append(unknown, key)
			continue
		}
		value := mapping[key]
		if kind := kinds[dest]; kind == KindUnknown {
			d.logger.Debug("skipping validation for destination of unknown shape", slog.String("key", key), slog.String("verb", verb))
		} else if err := validateKind(value, kind); err != nil {
			d.logger.Warn("ignoring configured default", slog.String("key", key), slog.String("verb", verb), slog.Any("value", value), slog.Any("error", err))
			continue
		}
		pending[dest] = copyValue(value)
	}

	if len(unknown) > 0 {
		d.logger.Warn("ignoring unknown configuration keys", slog.String("verb", verb), slog.String("keys", strings.Join(unknown, ", ")))
	}
	if len(pending) > 0 {
		node.SetDefaults(pending)
		installed := make([]string, 0, len(pending))
		for dest := range pending {
			installed = append(installed, dest)
		}
		sort.Strings(installed)
		d.logger.Debug("setting default values", slog.String("verb", verb), slog.Any("destinations", installed))
	}
}

// validateKind checks a configured value's shape against the inferred
// kind of its destination. An empty sequence is valid for every list kind,
// and a list kind with unknown element shape accepts any sequence.
func validateKind(value any, kind Kind) error {
	switch kind {
	case KindBool:
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("expected a boolean, got %T", value)
		}
	case KindInt:
		if _, ok := value.(int); !ok {
			return fmt.Errorf("expected an integer, got %T", value)
		}
	case KindString:
		if _, ok := value.(string); !ok {
			return fmt.Errorf("expected a string, got %T", value)
		}
	case KindStringList, KindIntList, KindList:
		seq, ok := value.([]any)
		if !ok {
			return fmt.Errorf("expected a sequence, got %T", value)
		}
		elem := kind.elem()
		if elem == KindUnknown {
			return nil
		}
		for i, e := range seq {
			if err := validateKind(e, elem); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
	}
	return nil
}

// copyValue returns a value safe to install as a parser default: lists and
// mappings are copied deeply so that later in-place mutation by the
// parsing layer cannot reach back into the configuration document.
func copyValue(value any) any {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = copyValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, e := range v {
			out[key] = copyValue(e)
		}
		return out
	default:
		return value
	}
}
