package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyntaxError_Error(t *testing.T) {
	tests := []struct {
		err  *SyntaxError
		want string
	}{
		{&SyntaxError{File: "a.p", Line: 1, Column: 17, Msg: "expected '.'"}, "a.p:1:17: expected '.'"},
		{&SyntaxError{File: "a.p", Index: 2, Entry: "c2", Line: 3, Column: 1, Msg: "bad"}, "a.p:3:1: entry 2 (c2): bad"},
		{&SyntaxError{Index: 1, Msg: "missing entry"}, "entry 1: missing entry"},
		{&SyntaxError{Msg: "missing document"}, "missing document"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestKind(t *testing.T) {
	wrapped := func(err error) error { return fmt.Errorf("include %q: %w", "x", err) }

	assert.Equal(t, ErrorKind(""), Kind(nil))
	assert.Equal(t, KindSyntax, Kind(wrapped(&SyntaxError{Msg: "x"})))
	assert.Equal(t, KindIO, Kind(wrapped(&IOError{Path: "x", Err: fs.ErrNotExist})))
	assert.Equal(t, KindCyclicInclude, Kind(wrapped(&CyclicIncludeError{Chain: []string{"a", "a"}})))
	assert.Equal(t, KindInternal, Kind(errors.New("boom")))
}

func TestIOError(t *testing.T) {
	err := &IOError{Path: "Axioms/A.ax", Err: fs.ErrNotExist}
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.True(t, err.NotFound())
	assert.False(t, (&IOError{Path: "x", Err: fs.ErrPermission}).NotFound())
	assert.Equal(t, "cannot read Axioms/A.ax: file does not exist", err.Error())
}

func TestCyclicIncludeError(t *testing.T) {
	err := &CyclicIncludeError{Chain: []string{"A.p", "B.p", "A.p"}}
	assert.Equal(t, "cyclic include: A.p -> B.p -> A.p", err.Error())
	assert.ErrorIs(t, err, ErrCyclicInclude)
}

func TestRemoteError(t *testing.T) {
	re := NewRemoteError(fmt.Errorf("wrap: %w", &SyntaxError{File: "a.p", Entry: "c", Line: 2, Column: 5, Msg: "bad"}))
	assert.Equal(t, KindSyntax, re.Kind)
	assert.Equal(t, "a.p", re.File)
	assert.Equal(t, 2, re.Line)
	assert.ErrorIs(t, re, ErrSyntax)
	assert.NotErrorIs(t, re, ErrIO)

	re = NewRemoteError(&IOError{Path: "x.ax", Err: fs.ErrNotExist})
	assert.Equal(t, "x.ax", re.Path)
	assert.ErrorIs(t, re, ErrIO)
	assert.Equal(t, "remote io error: cannot read x.ax: file does not exist", re.Error())

	assert.ErrorIs(t, &RemoteError{Kind: KindCyclicInclude}, ErrCyclicInclude)
	assert.False(t, errors.Is(&RemoteError{Kind: KindInternal}, ErrSyntax))
}
