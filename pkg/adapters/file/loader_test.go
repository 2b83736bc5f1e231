package file_test

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/aretw0/cnftree/internal/testutils"
	"github.com/aretw0/cnftree/pkg/adapters/file"
	"github.com/aretw0/cnftree/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLoader_Contract(t *testing.T) {
	root := t.TempDir()
	data := map[string][]byte{
		"Axioms/SET001-0.ax":  []byte("cnf(a, axiom, p)."),
		"Problems/SET001-1.p": []byte("include('Axioms/SET001-0.ax')."),
	}
	for name, content := range data {
		testutils.WriteFile(t, filepath.Join(root, name), content)
	}
	tests.SourceLoaderContractTest(t, file.NewLoader(), root, data)
}

func TestFileLoader_ByteOrderMarks(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFile(t, filepath.Join(root, "utf8.p"), append([]byte{0xEF, 0xBB, 0xBF}, "cnf(a, axiom, p)."...))
	// "p." in UTF-16LE with BOM
	testutils.WriteFile(t, filepath.Join(root, "utf16.p"), []byte{0xFF, 0xFE, 'p', 0x00, '.', 0x00})

	loader := file.NewLoader()
	src, err := loader.Load(context.Background(), root, "utf8.p")
	require.NoError(t, err)
	assert.Equal(t, "cnf(a, axiom, p).", string(src.Content))

	src, err = loader.Load(context.Background(), root, "utf16.p")
	require.NoError(t, err)
	assert.Equal(t, "p.", string(src.Content))
}

func TestFileLoader_CanonicalPath(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFile(t, filepath.Join(root, "Axioms", "A.ax"), []byte("x"))

	loader := file.NewLoader()
	a, err := loader.Load(context.Background(), root, "Axioms/A.ax")
	require.NoError(t, err)
	b, err := loader.Load(context.Background(), root, "Axioms/../Axioms/./A.ax")
	require.NoError(t, err)
	assert.Equal(t, a.Path, b.Path)
	assert.True(t, filepath.IsAbs(a.Path))

	resolved, err := loader.Resolve(root, "Axioms/./A.ax")
	require.NoError(t, err)
	assert.Equal(t, a.Path, resolved)
}

func TestFileLoader_Confinement(t *testing.T) {
	root := t.TempDir()
	testutils.WriteFile(t, filepath.Join(root, "secret.txt"), []byte("x"))
	base := filepath.Join(root, "tptp")
	testutils.WriteFile(t, filepath.Join(base, "A.ax"), []byte("y"))

	loader := file.NewLoader(file.WithConfinement())
	_, err := loader.Load(context.Background(), base, "../secret.txt")
	assert.True(t, errors.Is(err, fs.ErrPermission), "got %v", err)

	_, err = loader.Load(context.Background(), base, filepath.Join(root, "secret.txt"))
	assert.True(t, errors.Is(err, fs.ErrPermission), "got %v", err)

	_, err = loader.Load(context.Background(), base, "A.ax")
	assert.NoError(t, err)

	// Without confinement relative escapes are allowed, as in a local TPTP tree.
	_, err = file.NewLoader().Load(context.Background(), base, "../secret.txt")
	assert.NoError(t, err)
}
