package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	// ErrSyntax classifies malformed input, either raw text or AST shape.
	ErrSyntax = errors.New("syntax error")

	// ErrIO classifies failures to open or read an included file.
	ErrIO = errors.New("io error")

	// ErrCyclicInclude classifies an include chain that re-enters itself.
	ErrCyclicInclude = errors.New("cyclic include")

	// ErrTreeNotFound is returned when a tree cannot be found in a store.
	ErrTreeNotFound = errors.New("tree not found")
)

// SyntaxError reports malformed input. Entry and Index name the offending
// top-level entry when the error comes from the transformer.
type SyntaxError struct {
	File   string
	Entry  string
	Index  int // 1-based entry index, 0 if unknown
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteString(":")
	}
	if e.Line > 0 {
		fmt.Fprintf(&sb, "%d:%d:", e.Line, e.Column)
	}
	if sb.Len() > 0 {
		sb.WriteString(" ")
	}
	if e.Index > 0 {
		if e.Entry != "" {
			fmt.Fprintf(&sb, "entry %d (%s): ", e.Index, e.Entry)
		} else {
			fmt.Fprintf(&sb, "entry %d: ", e.Index)
		}
	}
	sb.WriteString(e.Msg)
	return sb.String()
}

// Is makes errors.Is(err, ErrSyntax) match.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// IOError reports an include that could not be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrIO) match.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// NotFound reports whether the file does not exist, as opposed to permission
// or other failures.
func (e *IOError) NotFound() bool {
	return errors.Is(e.Err, fs.ErrNotExist)
}

// CyclicIncludeError reports an include chain that loops. Chain starts with
// the first file of the loop and ends with the file included again.
type CyclicIncludeError struct {
	Chain []string
}

func (e *CyclicIncludeError) Error() string {
	return "cyclic include: " + strings.Join(e.Chain, " -> ")
}

// Is makes errors.Is(err, ErrCyclicInclude) match.
func (e *CyclicIncludeError) Is(target error) bool {
	return target == ErrCyclicInclude
}

// ErrorKind is the classification exposed at service boundaries.
type ErrorKind string

const (
	KindSyntax         ErrorKind = "syntax"
	KindIO             ErrorKind = "io"
	KindCyclicInclude  ErrorKind = "cyclic_include"
	KindInvalidRequest ErrorKind = "invalid_request"
	KindInternal       ErrorKind = "internal"
)

// Kind classifies err into one of the boundary error kinds.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCyclicInclude):
		return KindCyclicInclude
	case errors.Is(err, ErrSyntax):
		return KindSyntax
	case errors.Is(err, ErrIO):
		return KindIO
	}
	return KindInternal
}

// RemoteError is a structured error received from a remote transformer.
type RemoteError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	File    string    `json:"file,omitempty"`
	Entry   string    `json:"entry,omitempty"`
	Line    int       `json:"line,omitempty"`
	Column  int       `json:"column,omitempty"`
	Path    string    `json:"path,omitempty"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote %s error: %s", e.Kind, e.Message)
}

// Is maps the remote kind back onto the local sentinels.
func (e *RemoteError) Is(target error) bool {
	switch e.Kind {
	case KindSyntax:
		return target == ErrSyntax
	case KindIO:
		return target == ErrIO
	case KindCyclicInclude:
		return target == ErrCyclicInclude
	}
	return false
}

// NewRemoteError builds the structured form of err for transport.
func NewRemoteError(err error) *RemoteError {
	re := &RemoteError{Kind: Kind(err), Message: err.Error()}
	var syn *SyntaxError
	var ioe *IOError
	switch {
	case errors.As(err, &syn):
		re.File, re.Entry, re.Line, re.Column = syn.File, syn.Entry, syn.Line, syn.Column
	case errors.As(err, &ioe):
		re.Path = ioe.Path
	}
	return re
}
