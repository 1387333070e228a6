package defaults

import (
	"path/filepath"
	"testing"

	. "github.com/arikkfir/justest"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func newTestDecorator(t *testing.T, root *Parser, config string) *Decorator {
	t.Helper()
	var path string
	if config != "" {
		path = writeDefaultsFile(t, config)
	} else {
		path = filepath.Join(t.TempDir(), DefaultsFileName)
	}
	d, err := NewDecorator(root, "ws", WithLogger(discardLogger()), WithEnviron(map[string]string{}), WithConfigPath(path))
	With(t).Verify(err).Will(BeNil()).OrFail()
	return d
}

func TestNewDecorator(t *testing.T) {
	t.Parallel()

	_, err := NewDecorator(nil, "ws")
	With(t).Verify(err).Will(Fail(`^invalid parser: nil parser$`)).OrFail()

	root := newWorkspaceTree(t)
	build, found := root.Lookup("build")
	With(t).Verify(found).Will(EqualTo(true)).OrFail()
	_, err = NewDecorator(build, "ws")
	With(t).Verify(err).Will(Fail(`^parser is not a root parser: 'ws build'$`)).OrFail()

	_, err = NewDecorator(root, "")
	With(t).Verify(err).Will(Fail(`^invalid parser: empty application name$`)).OrFail()
}

func TestResolveEndToEnd(t *testing.T) {
	t.Parallel()
	config := "verbosity: 2\nbuild:\n  symlink-install: true\n"

	d := newTestDecorator(t, newWorkspaceTree(t), config)
	result, err := d.ParseArgs([]string{"build"})
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(result.Int("verbosity")).Will(EqualTo(2)).OrFail()
	With(t).Verify(result.Bool("symlink_install")).Will(EqualTo(true)).OrFail()
	With(t).Verify(result.String("verb")).Will(EqualTo("build")).OrFail()

	// An explicit command line value wins over the configured default,
	// while unrelated defaults still apply
	d = newTestDecorator(t, newWorkspaceTree(t), config)
	result, err = d.ParseArgs([]string{"build", "--verbosity", "5"})
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(result.Int("verbosity")).Will(EqualTo(5)).OrFail()
	With(t).Verify(result.Bool("symlink_install")).Will(EqualTo(true)).OrFail()
}

func TestResolveIdempotence(t *testing.T) {
	t.Parallel()
	root := newWorkspaceTree(t)
	d := newTestDecorator(t, root, "verbosity: 2\nbuild:\n  jobs: 4\n")

	first, err := d.ParseArgs([]string{"build"})
	With(t).Verify(err).Will(BeNil()).OrFail()
	build, _ := root.Lookup("build")
	installedAfterFirst := build.Defaults()

	second, err := d.ParseArgs([]string{"build"})
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(build.Defaults()).Will(EqualTo(installedAfterFirst)).OrFail()
	With(t).Verify(second.values).Will(EqualTo(first.values)).OrFail()
}

func TestResolveUnknownKeyTolerance(t *testing.T) {
	t.Parallel()
	d := newTestDecorator(t, newWorkspaceTree(t), "verbosity: 2\nnope: 1\n")

	result, err := d.ParseArgs(nil)
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(result.Int("verbosity")).Will(EqualTo(2)).OrFail()
	With(t).Verify(result.Has("nope")).Will(EqualTo(false)).OrFail()
}

func TestResolveVerbPathScoping(t *testing.T) {
	t.Parallel()
	d := newTestDecorator(t, newWorkspaceTree(t), "build:\n  jobs: 4\n")

	result, err := d.ParseArgs([]string{"test"})
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(result.values).Will(EqualTo(map[string]any{"verb": "test"})).OrFail()
}

func TestResolveTypeRejection(t *testing.T) {
	t.Parallel()
	type testCase struct {
		config   string
		expected map[string]any
	}
	testCases := map[string]testCase{
		"boolean for integer destination is skipped": {
			config:   "verbosity: true\n",
			expected: map[string]any{},
		},
		"integer for integer destination is accepted": {
			config:   "verbosity: 3\n",
			expected: map[string]any{"verbosity": 3},
		},
		"numeric string for integer destination is skipped": {
			config:   "verbosity: \"3\"\n",
			expected: map[string]any{},
		},
		"integer for string destination is skipped": {
			config:   "log-file: 7\n",
			expected: map[string]any{},
		},
		"string for string destination is accepted": {
			config:   "log-file: build.log\n",
			expected: map[string]any{"log_file": "build.log"},
		},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			d := newTestDecorator(t, newWorkspaceTree(t), tc.config)
			result, err := d.ParseArgs(nil)
			With(t).Verify(err).Will(BeNil()).OrFail()
			With(t).Verify(result.values).Will(EqualTo(tc.expected)).OrFail()
		})
	}
}

func TestResolveListValidation(t *testing.T) {
	t.Parallel()
	type testCase struct {
		config           string
		expectedPackages []string
		expectedPresent  bool
	}
	testCases := map[string]testCase{
		"list of strings is accepted": {
			config:           "build:\n  packages: [x, y]\n",
			expectedPackages: []string{"x", "y"},
			expectedPresent:  true,
		},
		"mixed-element list is skipped": {
			config:          "build:\n  packages: [x, 2]\n",
			expectedPresent: false,
		},
		"empty list is accepted": {
			config:           "build:\n  packages: []\n",
			expectedPackages: []string{},
			expectedPresent:  true,
		},
		"scalar for list destination is skipped": {
			config:          "build:\n  packages: x\n",
			expectedPresent: false,
		},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			d := newTestDecorator(t, newWorkspaceTree(t), tc.config)
			result, err := d.ParseArgs([]string{"build"})
			With(t).Verify(err).Will(BeNil()).OrFail()
			With(t).Verify(result.Has("packages")).Will(EqualTo(tc.expectedPresent)).OrFail()
			if tc.expectedPresent {
				With(t).Verify(result.Strings("packages")).Will(EqualTo(tc.expectedPackages)).OrFail()
			}
		})
	}
}

func TestResolveNestedVerbPath(t *testing.T) {
	t.Parallel()
	d := newTestDecorator(t, newWorkspaceTree(t), "build:\n  symlink-install: true\n  symlink:\n    force: true\n")

	result, err := d.ParseArgs([]string{"build", "symlink"})
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(result.Bool("symlink_install")).Will(EqualTo(true)).OrFail()
	With(t).Verify(result.Bool("force")).Will(EqualTo(true)).OrFail()
}

func TestResolveNonMappingBranch(t *testing.T) {
	t.Parallel()
	d := newTestDecorator(t, newWorkspaceTree(t), "verbosity: 2\nbuild: 5\n")

	// The malformed branch is skipped; sibling keys are unaffected
	result, err := d.ParseArgs([]string{"build"})
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(result.values).Will(EqualTo(map[string]any{"verb": "build", "verbosity": 2})).OrFail()
}

func TestResolveAbsentFile(t *testing.T) {
	t.Parallel()
	d := newTestDecorator(t, newWorkspaceTree(t), "")

	decorated, err := d.ParseArgs([]string{"build"})
	With(t).Verify(err).Will(BeNil()).OrFail()

	plain, err := newWorkspaceTree(t).ParseArgs([]string{"build"})
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(decorated.values).Will(EqualTo(plain.values)).OrFail()
}

func TestResolveEnvironmentOverride(t *testing.T) {
	t.Parallel()
	path := writeDefaultsFile(t, "verbosity: 2\n")
	d, err := NewDecorator(
		newWorkspaceTree(t), "ws",
		WithLogger(discardLogger()),
		WithEnviron(map[string]string{"WS_DEFAULTS_FILE": path}),
	)
	With(t).Verify(err).Will(BeNil()).OrFail()

	result, err := d.ParseArgs(nil)
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(result.Int("verbosity")).Will(EqualTo(2)).OrFail()
}

func TestResolveUnknownKindPassesThrough(t *testing.T) {
	t.Parallel()
	root := newWorkspaceTree(t)
	root.Registry().Register("path", func(s string) (any, error) { return s, nil })
	With(t).Verify(root.AddArgument(&Argument{Flag: "install-base", Type: "path"})).Will(BeNil()).OrFail()

	// No shape can be inferred for the custom converter, so any value is
	// installed unchecked
	d := newTestDecorator(t, root, "install-base:\n  nested: [1, 2]\n")
	result, err := d.ParseArgs(nil)
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(result.Get("install_base")).Will(EqualTo(map[string]any{"nested": []any{1, 2}})).OrFail()
}

func Test_validateKind(t *testing.T) {
	t.Parallel()
	type testCase struct {
		value         any
		kind          Kind
		expectedError string
	}
	testCases := map[string]testCase{
		"boolean":                      {value: true, kind: KindBool},
		"non-boolean":                  {value: "true", kind: KindBool, expectedError: `expected a boolean, got string`},
		"integer":                      {value: 3, kind: KindInt},
		"numeric string":               {value: "3", kind: KindInt, expectedError: `expected an integer, got string`},
		"string":                       {value: "x", kind: KindString},
		"non-string":                   {value: 3, kind: KindString, expectedError: `expected a string, got int`},
		"string list":                  {value: []any{"x", "y"}, kind: KindStringList},
		"string list with integer":     {value: []any{"x", 2}, kind: KindStringList, expectedError: `element 1: expected a string, got int`},
		"integer list":                 {value: []any{1, 2}, kind: KindIntList},
		"empty list":                   {value: []any{}, kind: KindIntList},
		"scalar for list":              {value: "x", kind: KindStringList, expectedError: `expected a sequence, got string`},
		"mixed list of unknown shape":  {value: []any{"x", 2, true}, kind: KindList},
		"unknown shape is not checked": {value: map[string]any{"a": 1}, kind: KindUnknown},
	}
	for name, tc := range testCases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			err := validateKind(tc.value, tc.kind)
			if tc.expectedError != "" {
				With(t).Verify(err).Will(Fail(tc.expectedError)).OrFail()
			} else {
				With(t).Verify(err).Will(BeNil()).OrFail()
			}
		})
	}
}

func Test_subDocument(t *testing.T) {
	t.Parallel()
	doc := map[string]any{
		"verbosity": 2,
		"build": map[string]any{
			"jobs": 4,
			"symlink": map[string]any{
				"force": true,
			},
		},
	}

	sub, found := subDocument(doc, []string{"build"})
	With(t).Verify(found).Will(EqualTo(true)).OrFail()
	With(t).Verify(sub.(map[string]any)["jobs"]).Will(EqualTo(4)).OrFail()

	sub, found = subDocument(doc, []string{"build", "symlink"})
	With(t).Verify(found).Will(EqualTo(true)).OrFail()
	With(t).Verify(sub).Will(EqualTo(map[string]any{"force": true})).OrFail()

	_, found = subDocument(doc, []string{"test"})
	With(t).Verify(found).Will(EqualTo(false)).OrFail()

	// A scalar segment terminates navigation
	_, found = subDocument(doc, []string{"verbosity", "deeper"})
	With(t).Verify(found).Will(EqualTo(false)).OrFail()
}

func Test_copyValue(t *testing.T) {
	t.Parallel()
	original := []any{"a", []any{"b"}, map[string]any{"c": "d"}}

	copied := copyValue(original).([]any)
	With(t).Verify(copied).Will(EqualTo(original)).OrFail()

	copied[0] = "z"
	copied[1].([]any)[0] = "z"
	copied[2].(map[string]any)["c"] = "z"
	With(t).Verify(original).Will(EqualTo([]any{"a", []any{"b"}, map[string]any{"c": "d"}}, cmpopts.EquateEmpty())).OrFail()
}
