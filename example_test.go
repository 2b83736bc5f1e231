package cnftree_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/cnftree"
	"github.com/aretw0/cnftree/pkg/adapters/memory"
	"github.com/aretw0/cnftree/pkg/domain"
)

func ExampleConverter_TransformText() {
	conv := cnftree.New()

	tree, err := conv.TransformText(context.Background(), "example.p",
		[]byte("cnf(test, axiom, ~ p(f(X, g(Y, Z))) | X = Y | $false)."))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tree)
	fmt.Println(tree.Bound())
	// Output:
	// (? p f g (& (! X Y Z (| (~ (p (f X (g Y Z)))) (= X Y) $false))))
	// [p f g]
}

// ExampleWithLoader resolves includes from memory instead of the filesystem.
func ExampleWithLoader() {
	loader := memory.NewLoader(map[string]string{
		"Axioms/EQ.ax": "cnf(reflexivity, axiom, X = X).\ncnf(sym, axiom, X != Y | Y = X).",
	})
	conv := cnftree.New(cnftree.WithLoader(loader))

	tree, err := conv.TransformText(context.Background(), "problem.p",
		[]byte("include('Axioms/EQ.ax', [reflexivity]).\ncnf(goal, negated_conjecture, a != a)."))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(tree)
	// Output:
	// (? a (& (! X (| (= X X))) (! (| (!= a a)))))
}

func ExampleConverter_TransformText_errors() {
	conv := cnftree.New(cnftree.WithLoader(memory.NewLoader(nil)))

	_, err := conv.TransformText(context.Background(), "problem.p", []byte("include('Axioms/none.ax')."))
	fmt.Println(errors.Is(err, domain.ErrIO), domain.Kind(err))
	// Output:
	// true io
}
