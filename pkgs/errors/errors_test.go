package errors

import (
	"bytes"
	"testing"

	"github.com/aledsdavies/lox/pkgs/token"
	"github.com/stretchr/testify/require"
)

func TestReport_FormatsLineAndWhere(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	r.Report(3, "at 'x'", "bad token")
	require.Equal(t, "[line 3] Error at 'x': bad token\n", buf.String())
	require.True(t, r.HadError())
}

func TestErrorAtToken_EOFUsesAtEnd(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	r.ErrorAtToken(token.New(token.EOF, "", nil, 5), "Expect expression.")
	require.Contains(t, buf.String(), "at end")
}

func TestErrorAtToken_OtherUsesLexeme(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	r.ErrorAtToken(token.New(token.IDENTIFIER, "foo", nil, 5), "bad")
	require.Contains(t, buf.String(), "at 'foo'")
}

func TestRuntimeErr_FormatAndFlag(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	tok := token.New(token.SLASH, "/", nil, 7)
	r.RuntimeErr(NewRuntimeError(tok, "division by zero"), nil)
	require.Equal(t, "division by zero\n[line 7]\n", buf.String())
	require.True(t, r.HadRuntimeError())
}

func TestRuntimeErr_SuggestsCloseName(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	tok := token.New(token.IDENTIFIER, "coutn", nil, 1)
	err := NewRuntimeError(tok, "Undefined variable 'coutn'.")
	r.RuntimeErr(err, []string{"count", "other"})
	require.Contains(t, buf.String(), "Did you mean 'count'?")
}

func TestRuntimeErr_NoSuggestionWithoutCandidates(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	tok := token.New(token.IDENTIFIER, "x", nil, 1)
	err := NewRuntimeError(tok, "Undefined variable 'x'.")
	r.RuntimeErr(err, nil)
	require.NotContains(t, buf.String(), "Did you mean")
}

func TestReset_ClearsBothFlags(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	r.ErrorAtLine(1, "bad")
	r.RuntimeErr(NewRuntimeError(token.New(token.EOF, "", nil, 1), "boom"), nil)
	require.True(t, r.HadError())
	require.True(t, r.HadRuntimeError())

	r.Reset()
	require.False(t, r.HadError())
	require.False(t, r.HadRuntimeError())
}
