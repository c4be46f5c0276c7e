// Package interpreter walks the AST produced by the parser, evaluating
// expressions and executing statements against a chain of environments. It
// owns the global environment, which persists for the interpreter's
// lifetime so that REPL lines sharing one Interpreter see each other's
// bindings.
package interpreter

import (
	"fmt"
	"io"
	"time"

	"github.com/aledsdavies/lox/pkgs/ast"
	"github.com/aledsdavies/lox/pkgs/environment"
	"github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/token"
	"github.com/aledsdavies/lox/pkgs/value"
)

// flowKind tags how a statement exited, threading non-local control flow
// (return/break) through ordinary Go return values rather than panicking.
// Both spec-sanctioned strategies exist in the wild; this one keeps the
// signal out of the error channel so catch sites can never mistake a
// control-flow effect for a runtime error.
type flowKind int

const (
	flowNormal flowKind = iota
	flowReturn
	flowBreak
)

type flow struct {
	kind  flowKind
	value any // meaningful only when kind == flowReturn
}

var normalFlow = flow{kind: flowNormal}

// Interpreter executes a parsed program. It is not safe for concurrent use;
// Lox has no guest-language concurrency and execution is synchronous.
type Interpreter struct {
	globals  *environment.Environment
	env      *environment.Environment
	reporter *errors.Reporter
	out      io.Writer
}

// New constructs an Interpreter with a populated global environment
// (currently just the native clock() function) and ties diagnostics to
// reporter, print output to out.
func New(reporter *errors.Reporter, out io.Writer) *Interpreter {
	globals := environment.New(nil)
	globals.Define("clock", &value.Native{
		Name: "clock",
		Arg:  0,
		Fn: func(_ []any) (any, error) {
			return float64(time.Now().UnixNano()) / 1e9, nil
		},
	})
	return &Interpreter{globals: globals, env: globals, reporter: reporter, out: out}
}

// Interpret runs each statement in order. A single runtime error aborts the
// remaining statements and is forwarded to the reporter; syntax and
// control-flow signals never reach this boundary (the parser guarantees
// break/return placement, and CallFunction/While consume their own).
func (in *Interpreter) Interpret(statements []ast.Stmt) {
	for _, stmt := range statements {
		if _, err := in.execute(stmt); err != nil {
			if rerr, ok := err.(*errors.RuntimeError); ok {
				in.reporter.RuntimeErr(rerr, in.env.Names())
			}
			return
		}
	}
}

// --- statement execution ---

func (in *Interpreter) execute(stmt ast.Stmt) (flow, error) {
	switch s := stmt.(type) {
	case *ast.Expression:
		_, err := in.evaluate(s.Expr)
		return normalFlow, err
	case *ast.Print:
		v, err := in.evaluate(s.Expr)
		if err != nil {
			return normalFlow, err
		}
		fmt.Fprintln(in.out, value.Stringify(v))
		return normalFlow, nil
	case *ast.Var:
		var v any
		if s.Initializer != nil {
			var err error
			v, err = in.evaluate(s.Initializer)
			if err != nil {
				return normalFlow, err
			}
		}
		in.env.Define(s.Name.Lexeme, v)
		return normalFlow, nil
	case *ast.Block:
		return in.executeBlock(s.Statements, environment.New(in.env))
	case *ast.If:
		cond, err := in.evaluate(s.Cond)
		if err != nil {
			return normalFlow, err
		}
		if value.IsTruthy(cond) {
			return in.execute(s.Then)
		}
		if s.Else != nil {
			return in.execute(s.Else)
		}
		return normalFlow, nil
	case *ast.While:
		for {
			cond, err := in.evaluate(s.Cond)
			if err != nil {
				return normalFlow, err
			}
			if !value.IsTruthy(cond) {
				return normalFlow, nil
			}
			f, err := in.execute(s.Body)
			if err != nil {
				return normalFlow, err
			}
			switch f.kind {
			case flowBreak:
				return normalFlow, nil
			case flowReturn:
				return f, nil
			}
		}
	case *ast.Function:
		fn := &value.Function{Decl: s, Closure: in.env}
		in.env.Define(s.Name.Lexeme, fn)
		return normalFlow, nil
	case *ast.Return:
		var v any
		if s.Value != nil {
			var err error
			v, err = in.evaluate(s.Value)
			if err != nil {
				return normalFlow, err
			}
		}
		return flow{kind: flowReturn, value: v}, nil
	case *ast.Break:
		return flow{kind: flowBreak}, nil
	default:
		return normalFlow, fmt.Errorf("interpreter: unhandled statement %T", stmt)
	}
}

// executeBlock runs statements in env and restores the interpreter's
// previous environment on every exit path — normal, break, return or
// error — which is the single most important resource invariant of the
// interpreter.
func (in *Interpreter) executeBlock(statements []ast.Stmt, env *environment.Environment) (flow, error) {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, stmt := range statements {
		f, err := in.execute(stmt)
		if err != nil {
			return normalFlow, err
		}
		if f.kind != flowNormal {
			return f, nil
		}
	}
	return normalFlow, nil
}

// CallFunction implements value.Caller: it runs a user function's body in a
// fresh environment whose enclosing scope is the function's capture
// environment, not the caller's.
func (in *Interpreter) CallFunction(decl *ast.Function, closure *environment.Environment, args []any) (any, error) {
	callEnv := environment.New(closure)
	for i, param := range decl.Params {
		callEnv.Define(param.Lexeme, args[i])
	}
	f, err := in.executeBlock(decl.Body, callEnv)
	if err != nil {
		return nil, err
	}
	if f.kind == flowReturn {
		return f.value, nil
	}
	return nil, nil
}

// --- expression evaluation ---

func (in *Interpreter) evaluate(expr ast.Expr) (any, error) {
	switch e := expr.(type) {
	case *ast.Literal:
		return e.Value, nil
	case *ast.Grouping:
		return in.evaluate(e.Inner)
	case *ast.Unary:
		return in.evalUnary(e)
	case *ast.Binary:
		return in.evalBinary(e)
	case *ast.Logical:
		return in.evalLogical(e)
	case *ast.Conditional:
		return in.evalConditional(e)
	case *ast.Variable:
		return in.env.Get(e.Name)
	case *ast.Assign:
		v, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}
		if err := in.env.Assign(e.Name, v); err != nil {
			return nil, err
		}
		return v, nil
	case *ast.Call:
		return in.evalCall(e)
	default:
		return nil, fmt.Errorf("interpreter: unhandled expression %T", expr)
	}
}

func (in *Interpreter) evalUnary(e *ast.Unary) (any, error) {
	right, err := in.evaluate(e.Operand)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case token.BANG:
		return !value.IsTruthy(right), nil
	case token.MINUS:
		n, ok := right.(float64)
		if !ok {
			return nil, errors.NewRuntimeError(e.Operator, "Operand must be a number.")
		}
		return -n, nil
	}
	return nil, fmt.Errorf("interpreter: unhandled unary operator %s", e.Operator.Type)
}

func (in *Interpreter) evalBinary(e *ast.Binary) (any, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator.Type {
	case token.COMMA:
		return right, nil
	case token.EQUAL_EQUAL:
		return value.Equal(left, right), nil
	case token.BANG_EQUAL:
		return !value.Equal(left, right), nil
	case token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL:
		ln, rn, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		switch e.Operator.Type {
		case token.GREATER:
			return ln > rn, nil
		case token.GREATER_EQUAL:
			return ln >= rn, nil
		case token.LESS:
			return ln < rn, nil
		default:
			return ln <= rn, nil
		}
	case token.MINUS:
		ln, rn, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case token.STAR:
		ln, rn, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case token.SLASH:
		ln, rn, err := checkNumberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		if rn == 0 {
			return nil, errors.NewRuntimeError(e.Operator, "division by zero")
		}
		return ln / rn, nil
	case token.PLUS:
		return evalPlus(e.Operator, left, right)
	}
	return nil, fmt.Errorf("interpreter: unhandled binary operator %s", e.Operator.Type)
}

func evalPlus(op token.Token, left, right any) (any, error) {
	if ln, ok := left.(float64); ok {
		if rn, ok := right.(float64); ok {
			return ln + rn, nil
		}
	}
	if ls, ok := left.(string); ok {
		if rs, ok := right.(string); ok {
			return ls + rs, nil
		}
	}
	// Intentional extension: string + anything stringifies the other side.
	if _, ok := left.(string); ok {
		return left.(string) + value.Stringify(right), nil
	}
	if _, ok := right.(string); ok {
		return value.Stringify(left) + right.(string), nil
	}
	return nil, errors.NewRuntimeError(op, "Operands must be two numbers or two strings.")
}

func checkNumberOperands(op token.Token, left, right any) (float64, float64, error) {
	ln, lok := left.(float64)
	rn, rok := right.(float64)
	if !lok || !rok {
		return 0, 0, errors.NewRuntimeError(op, "Operands must be numbers.")
	}
	return ln, rn, nil
}

func (in *Interpreter) evalLogical(e *ast.Logical) (any, error) {
	left, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Operator.Type == token.OR {
		if value.IsTruthy(left) {
			return left, nil
		}
	} else {
		if !value.IsTruthy(left) {
			return left, nil
		}
	}
	return in.evaluate(e.Right)
}

func (in *Interpreter) evalConditional(e *ast.Conditional) (any, error) {
	cond, err := in.evaluate(e.Cond)
	if err != nil {
		return nil, err
	}
	if value.IsTruthy(cond) {
		return in.evaluate(e.Then)
	}
	return in.evaluate(e.Else)
}

func (in *Interpreter) evalCall(e *ast.Call) (any, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]any, len(e.Args))
	for i, a := range e.Args {
		v, err := in.evaluate(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	fn, ok := callee.(value.Callable)
	if !ok {
		return nil, errors.NewRuntimeError(e.Paren, "Can only call functions and classes.")
	}
	if len(args) != fn.Arity() {
		return nil, errors.NewRuntimeError(e.Paren, "Expected %d arguments but got %d.", fn.Arity(), len(args))
	}
	return fn.Call(in, args)
}
