/*
Package cnftree converts TPTP problem files in clause normal form (CNF) into a
canonical labeled tree, ready for machine consumption such as learning or
reasoning pipelines.

# Concept

Every document becomes a single tree. Operators, markers, symbols and variables
all share one label space:

	cnf(test, axiom, ~ p(f(X, g(Y, Z))) | X = Y | $false).

becomes

	(? p f g
	   (& (! X Y Z
	         (| (~ (p (f X (g Y Z))))
	            (= X Y)
	            $false))))

Each clause is wrapped in a universal marker (!) listing the variables it binds,
and the whole document in an existential marker (?) listing every function and
predicate symbol it uses, including those pulled in through include directives.
The markers are structural annotations for downstream consumers, not logical
quantifiers.

# Usage

	conv := cnftree.New(cnftree.WithBaseDir(os.Getenv("TPTP")))
	tree, err := conv.TransformFile(ctx, "Problems/SET/SET001-1.p")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tree)

Errors are classified with errors.Is against domain.ErrSyntax, domain.ErrIO and
domain.ErrCyclicInclude. No partial tree is ever returned.

# Packages

  - pkg/domain: the output tree and the error taxonomy.
  - pkg/codec: protobuf, JSON and S-expression encodings, with stream framing.
  - pkg/runner: batch conversion of many problem files.
  - pkg/adapters: loaders, caches (memory, file, Redis, SQLite) and transports (HTTP, MCP).
*/
package cnftree
