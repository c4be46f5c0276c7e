// Package value defines the Lox runtime value representation: the closed
// variant nil | bool | float64 | string | Callable, plus the shared
// truthiness and stringification rules. Go's type system already keeps
// bool and float64 disjoint, so a number can never look truthy and a bool
// can never stringify as a number.
package value

import (
	"strconv"

	"github.com/aledsdavies/lox/pkgs/ast"
	"github.com/aledsdavies/lox/pkgs/environment"
)

// Caller is the subset of the interpreter a Callable needs to invoke a
// user-defined function body. The interpreter implements this interface;
// value cannot import interpreter directly without a cycle, so the
// dependency runs the other way.
type Caller interface {
	CallFunction(decl *ast.Function, closure *environment.Environment, args []any) (any, error)
}

// Callable is any runtime value that can appear as the callee of a Call
// expression.
type Callable interface {
	Arity() int
	String() string
	Call(caller Caller, args []any) (any, error)
}

// Function is a user-defined callable: it holds its declaration AST and the
// environment it closed over at definition time.
type Function struct {
	Decl    *ast.Function
	Closure *environment.Environment
}

func (f *Function) Arity() int { return len(f.Decl.Params) }

func (f *Function) String() string { return "<fn " + f.Decl.Name.Lexeme + ">" }

func (f *Function) Call(caller Caller, args []any) (any, error) {
	return caller.CallFunction(f.Decl, f.Closure, args)
}

// Native wraps a host-provided function, such as clock().
type Native struct {
	Name string
	Arg  int
	Fn   func(args []any) (any, error)
}

func (n *Native) Arity() int { return n.Arg }

func (n *Native) String() string { return "<native fn>" }

func (n *Native) Call(_ Caller, args []any) (any, error) { return n.Fn(args) }

// IsTruthy implements Lox truthiness: exactly false and nil are falsy.
func IsTruthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// Equal implements Lox equality: distinct variants never compare equal
// except that nil equals only nil.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	default:
		return a == b
	}
}

// Stringify renders v the way `print` and string concatenation do.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case float64:
		return formatNumber(t)
	case string:
		return t
	case Callable:
		return t.String()
	default:
		return "nil"
	}
}

func formatNumber(f float64) string {
	text := strconv.FormatFloat(f, 'g', -1, 64)
	if i := int64(f); float64(i) == f {
		return strconv.FormatInt(i, 10)
	}
	return text
}
