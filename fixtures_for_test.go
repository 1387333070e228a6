package defaults

import (
	"io"

	. "github.com/arikkfir/justest"
)

// newWorkspaceTree declares the parser tree used across tests:
//
//	ws --verbosity=INT --log-file=VALUE
//	   build --symlink-install --jobs=INT --packages VALUE...
//	         symlink --force
//	   test --retries=INT
func newWorkspaceTree(t T) *Parser {
	root := NewParser("ws", "Build and test a workspace")
	root.SetOutput(io.Discard)
	With(t).Verify(root.AddArgument(&Argument{Flag: "verbosity", Type: TypeInt})).Will(BeNil()).OrFail()
	With(t).Verify(root.AddArgument(&Argument{Flag: "log-file"})).Will(BeNil()).OrFail()

	verbs, err := root.AddCommandGroup("verb")
	With(t).Verify(err).Will(BeNil()).OrFail()

	build, err := verbs.AddParser("build", "Build the packages")
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(build.AddArgument(&Argument{Flag: "symlink-install", Action: ActionStoreTrue})).Will(BeNil()).OrFail()
	With(t).Verify(build.AddArgument(&Argument{Flag: "jobs", Type: TypeInt})).Will(BeNil()).OrFail()
	With(t).Verify(build.AddArgument(&Argument{Flag: "packages", Arity: ArityOneOrMore})).Will(BeNil()).OrFail()

	buildVerbs, err := build.AddCommandGroup("build_verb")
	With(t).Verify(err).Will(BeNil()).OrFail()
	symlink, err := buildVerbs.AddParser("symlink", "Symlink the install layout")
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(symlink.AddArgument(&Argument{Flag: "force", Action: ActionStoreTrue})).Will(BeNil()).OrFail()

	testVerb, err := verbs.AddParser("test", "Run the tests")
	With(t).Verify(err).Will(BeNil()).OrFail()
	With(t).Verify(testVerb.AddArgument(&Argument{Flag: "retries", Type: TypeInt})).Will(BeNil()).OrFail()

	return root
}
