package ast

import "github.com/aledsdavies/lox/pkgs/token"

// The functions below build AST fragments without a parser, for
// hand-constructing expected trees in tests.

func Num(v float64) *Literal  { return &Literal{Value: v} }
func Str(v string) *Literal   { return &Literal{Value: v} }
func Bool(v bool) *Literal    { return &Literal{Value: v} }
func Nil() *Literal           { return &Literal{Value: nil} }
func Id(name string) *Variable {
	return &Variable{Name: token.New(token.IDENTIFIER, name, nil, 0)}
}

func Bin(left Expr, op token.Type, lexeme string, right Expr) *Binary {
	return &Binary{Left: left, Operator: token.New(op, lexeme, nil, 0), Right: right}
}

func Grp(inner Expr) *Grouping { return &Grouping{Inner: inner} }
