package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/lexer"
	"github.com/aledsdavies/lox/pkgs/parser"
	"github.com/stretchr/testify/require"
)

// run scans, parses and interprets src against a fresh Interpreter,
// returning stdout and the reporter so tests can assert on both output and
// error flags.
func run(t *testing.T, src string) (string, *errors.Reporter) {
	t.Helper()
	var out bytes.Buffer
	var errOut bytes.Buffer
	reporter := errors.New(&errOut)
	tokens := lexer.New(src, reporter).ScanTokens()
	require.False(t, reporter.HadError(), "scan error for %q", src)
	statements := parser.New(tokens, reporter).Parse()
	require.False(t, reporter.HadError(), "parse error for %q", src)

	interp := New(reporter, &out)
	interp.Interpret(statements)
	return out.String(), reporter
}

func TestEndToEnd_Arithmetic(t *testing.T) {
	out, _ := run(t, "print 1 + 2;")
	require.Equal(t, "3\n", out)
}

func TestEndToEnd_StringPlusNumberStringifies(t *testing.T) {
	out, _ := run(t, `var a = "hi"; print a + 1;`)
	require.Equal(t, "hi1\n", out)
}

func TestEndToEnd_BlockShadowing(t *testing.T) {
	out, _ := run(t, `var a = 0; { var a = 1; print a; } print a;`)
	require.Equal(t, "1\n0\n", out)
}

func TestEndToEnd_ClosureCapturesSameBinding(t *testing.T) {
	out, _ := run(t, `
fun make() {
  var i = 0;
  fun inc() {
    i = i + 1;
    return i;
  }
  return inc;
}
var c = make();
print c();
print c();
`)
	require.Equal(t, "1\n2\n", out)
}

func TestEndToEnd_ForLoopBreak(t *testing.T) {
	out, _ := run(t, `for (var i = 0; i < 3; i = i + 1) { if (i == 2) break; print i; }`)
	require.Equal(t, "0\n1\n", out)
}

func TestEndToEnd_DivisionByZeroIsRuntimeError(t *testing.T) {
	out, reporter := run(t, "print 1 / 0;")
	require.Equal(t, "", out)
	require.True(t, reporter.HadRuntimeError())
}

func TestEndToEnd_UninitializedVarIsNil(t *testing.T) {
	out, _ := run(t, "var a; print a;")
	require.Equal(t, "nil\n", out)
}

func TestEndToEnd_CrossTypeEqualityIsFalse(t *testing.T) {
	out, _ := run(t, `print "a" == 1;`)
	require.Equal(t, "false\n", out)
}

func TestEndToEnd_NilEqualsOnlyNil(t *testing.T) {
	out, _ := run(t, "print nil == nil; print nil == false;")
	require.Equal(t, "true\nfalse\n", out)
}

func TestEndToEnd_IntegerValuedDoublesPrintWithoutTrailingZero(t *testing.T) {
	out, _ := run(t, "print 6 / 2;")
	require.Equal(t, "3\n", out)
}

func TestEndToEnd_FractionalDoublePrintsAsIs(t *testing.T) {
	out, _ := run(t, "print 1 / 4;")
	require.Equal(t, "0.25\n", out)
}

func TestEndToEnd_ShortCircuitOr(t *testing.T) {
	out, _ := run(t, `
fun sideEffect() { print "called"; return true; }
print true or sideEffect();
`)
	require.Equal(t, "true\n", out)
}

func TestEndToEnd_ShortCircuitAnd(t *testing.T) {
	out, _ := run(t, `
fun sideEffect() { print "called"; return true; }
print false and sideEffect();
`)
	require.Equal(t, "false\n", out)
}

func TestEndToEnd_RecursionViaSelfReferencingClosure(t *testing.T) {
	out, _ := run(t, `
fun fib(n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
print fib(10);
`)
	require.Equal(t, "55\n", out)
}

func TestEndToEnd_EnvironmentRestoredAfterBlockError(t *testing.T) {
	// A runtime error inside a block must not leave the interpreter
	// pointed at the block's (now-discarded) environment.
	interp := New(errors.New(&bytes.Buffer{}), &bytes.Buffer{})
	before := interp.env
	tokens := lexer.New(`{ print 1/0; }`, interp.reporter).ScanTokens()
	statements := parser.New(tokens, interp.reporter).Parse()
	interp.Interpret(statements)
	require.Same(t, before, interp.env)
}

func TestEndToEnd_CallingNonCallableIsRuntimeError(t *testing.T) {
	_, reporter := run(t, `var a = 1; a();`)
	require.True(t, reporter.HadRuntimeError())
}

func TestEndToEnd_WrongArityIsRuntimeError(t *testing.T) {
	_, reporter := run(t, `fun f(a) { return a; } f();`)
	require.True(t, reporter.HadRuntimeError())
}

func TestEndToEnd_UndefinedVariableSuggestsCloseName(t *testing.T) {
	var out, errOut bytes.Buffer
	reporter := errors.New(&errOut)
	tokens := lexer.New(`var count = 1; print coutn;`, reporter).ScanTokens()
	statements := parser.New(tokens, reporter).Parse()
	interp := New(reporter, &out)
	interp.Interpret(statements)
	require.True(t, reporter.HadRuntimeError())
	require.True(t, strings.Contains(errOut.String(), "Did you mean 'count'?"))
}

func TestEndToEnd_ClockIsCallableWithZeroArity(t *testing.T) {
	out, reporter := run(t, "print clock() >= 0;")
	require.False(t, reporter.HadRuntimeError())
	require.Equal(t, "true\n", out)
}

func TestEndToEnd_NForLoopRunsExactlyN(t *testing.T) {
	out, _ := run(t, `
var count = 0;
for (var i = 0; i < 5; i = i + 1) count = count + 1;
print count;
`)
	require.Equal(t, "5\n", out)
}
