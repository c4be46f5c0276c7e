// Package parser implements a recursive-descent parser, lowest precedence
// first: comma, conditional, assignment, logic_or, logic_and, equality,
// comparison, term, factor, unary, call, primary. It never aborts on a
// malformed statement: errors
// are pushed to the shared reporter and the parser synchronises to the next
// probable statement boundary, so a single source file can surface more
// than one diagnostic per run.
package parser

import (
	"github.com/aledsdavies/lox/pkgs/ast"
	"github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/token"
)

const maxArgs = 255

// Parser holds the token stream and the bookkeeping needed for `break`
// validity and top-level `return` rejection.
type Parser struct {
	tokens    []token.Token
	pos       int
	reporter  *errors.Reporter
	loopDepth int
	funcDepth int
}

// New creates a Parser over tokens, reporting syntax errors to reporter.
func New(tokens []token.Token, reporter *errors.Reporter) *Parser {
	return &Parser{tokens: tokens, reporter: reporter}
}

// Parse returns the list of successfully parsed statements. Any error
// encountered is pushed to the reporter; the driver should check
// reporter.HadError() afterwards and skip execution if set — the returned
// statements may be a partial, best-effort program.
func (p *Parser) Parse() []ast.Stmt {
	var statements []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			statements = append(statements, stmt)
		}
	}
	return statements
}

// --- declarations ---

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.check(token.FUN):
		p.advance()
		stmt, err := p.function("function")
		if err != nil {
			p.reportAndSync(err)
			return nil
		}
		return stmt
	case p.check(token.VAR):
		p.advance()
		stmt, err := p.varDecl()
		if err != nil {
			p.reportAndSync(err)
			return nil
		}
		return stmt
	default:
		stmt, err := p.statement()
		if err != nil {
			p.reportAndSync(err)
			return nil
		}
		return stmt
	}
}

func (p *Parser) function(kind string) (*ast.Function, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}
	var params []token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 parameters.")
			}
			param, err := p.consume(token.IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.consume(token.LEFT_BRACE, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	p.funcDepth++
	body, err := p.block()
	p.funcDepth--
	if err != nil {
		return nil, err
	}
	return &ast.Function{Name: name, Params: params, Body: body}, nil
}

func (p *Parser) varDecl() (ast.Stmt, error) {
	name, err := p.consume(token.IDENTIFIER, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &ast.Var{Name: name, Initializer: initializer}, nil
}

// --- statements ---

func (p *Parser) statement() (ast.Stmt, error) {
	switch {
	case p.check(token.PRINT):
		p.advance()
		return p.printStmt()
	case p.check(token.LEFT_BRACE):
		p.advance()
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return &ast.Block{Statements: stmts}, nil
	case p.check(token.IF):
		p.advance()
		return p.ifStmt()
	case p.check(token.WHILE):
		p.advance()
		return p.whileStmt()
	case p.check(token.FOR):
		p.advance()
		return p.forStmt()
	case p.check(token.RETURN):
		tok := p.advance()
		return p.returnStmt(tok)
	case p.check(token.BREAK):
		tok := p.advance()
		return p.breakStmt(tok)
	default:
		return p.exprStmt()
	}
}

func (p *Parser) printStmt() (ast.Stmt, error) {
	value, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &ast.Print{Expr: value}, nil
}

func (p *Parser) exprStmt() (ast.Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ast.Expression{Expr: expr}, nil
}

func (p *Parser) block() ([]ast.Stmt, error) {
	var statements []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		stmt := p.declaration()
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if _, err := p.consume(token.RIGHT_BRACE, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return statements, nil
}

func (p *Parser) ifStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after if condition."); err != nil {
		return nil, err
	}
	then, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.If{Cond: cond, Then: then, Else: elseBranch}, nil
}

func (p *Parser) whileStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	p.loopDepth++
	body, err := p.statement()
	p.loopDepth--
	if err != nil {
		return nil, err
	}
	return &ast.While{Cond: cond, Body: body}, nil
}

// forStmt lowers `for (init; cond; inc) body` into
// Block([init, While(cond ?? true, Block([body, Expression(inc)]))]).
func (p *Parser) forStmt() (ast.Stmt, error) {
	if _, err := p.consume(token.LEFT_PAREN, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var initializer ast.Stmt
	var err error
	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.check(token.VAR):
		p.advance()
		initializer, err = p.varDecl()
	default:
		initializer, err = p.exprStmt()
	}
	if err != nil {
		return nil, err
	}

	var cond ast.Expr
	if !p.check(token.SEMICOLON) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var increment ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	p.loopDepth++
	body, err := p.statement()
	p.loopDepth--
	if err != nil {
		return nil, err
	}

	if increment != nil {
		body = &ast.Block{Statements: []ast.Stmt{body, &ast.Expression{Expr: increment}}}
	}
	if cond == nil {
		cond = &ast.Literal{Value: true}
	}
	body = &ast.While{Cond: cond, Body: body}
	if initializer != nil {
		body = &ast.Block{Statements: []ast.Stmt{initializer, body}}
	}
	return body, nil
}

func (p *Parser) returnStmt(keyword token.Token) (ast.Stmt, error) {
	if p.funcDepth == 0 {
		p.errorAt(keyword, "Can't return from top-level code.")
	}
	var value ast.Expr
	var err error
	if !p.check(token.SEMICOLON) {
		value, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &ast.Return{Keyword: keyword, Value: value}, nil
}

func (p *Parser) breakStmt(keyword token.Token) (ast.Stmt, error) {
	if p.loopDepth == 0 {
		p.errorAt(keyword, "Can't break outside of a loop.")
	}
	if _, err := p.consume(token.SEMICOLON, "Expect ';' after 'break'."); err != nil {
		return nil, err
	}
	return &ast.Break{Keyword: keyword}, nil
}

// --- expressions, lowest precedence first ---

func (p *Parser) expression() (ast.Expr, error) {
	return p.comma()
}

func (p *Parser) comma() (ast.Expr, error) {
	expr, err := p.conditional()
	if err != nil {
		return nil, err
	}
	for p.check(token.COMMA) {
		op := p.advance()
		right, err := p.conditional()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

// conditional parses `assignment ( "?" expression ":" conditional )?`. The
// middle branch is full `expression` (including comma), so `a ? b, c : d`
// parses as `a ? (b, c) : d` — an intentional preservation of the source
// grammar's ambiguity.
func (p *Parser) conditional() (ast.Expr, error) {
	expr, err := p.assignment()
	if err != nil {
		return nil, err
	}
	if p.match(token.QUESTION) {
		then, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.COLON, "Expect ':' after then branch of conditional expression."); err != nil {
			return nil, err
		}
		elseBranch, err := p.conditional()
		if err != nil {
			return nil, err
		}
		return &ast.Conditional{Cond: expr, Then: then, Else: elseBranch}, nil
	}
	return expr, nil
}

func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.logicOr()
	if err != nil {
		return nil, err
	}
	if p.check(token.EQUAL) {
		equals := p.advance()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}
		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assign{Name: v.Name, Value: value}, nil
		}
		p.errorAt(equals, "Invalid assignment target.")
		return expr, nil
	}
	return expr, nil
}

func (p *Parser) logicOr() (ast.Expr, error) {
	expr, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.check(token.OR) {
		op := p.advance()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) logicAnd() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.check(token.AND) {
		op := p.advance()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) equality() (ast.Expr, error) {
	return p.binaryLevel(p.comparison, token.BANG_EQUAL, token.EQUAL_EQUAL)
}

func (p *Parser) comparison() (ast.Expr, error) {
	return p.binaryLevel(p.term, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL)
}

func (p *Parser) term() (ast.Expr, error) {
	return p.binaryLevel(p.factor, token.PLUS, token.MINUS)
}

func (p *Parser) factor() (ast.Expr, error) {
	return p.binaryLevel(p.unary, token.STAR, token.SLASH)
}

// binaryLevel parses a standard left-associative binary precedence level:
// next ( op next )*
func (p *Parser) binaryLevel(next func() (ast.Expr, error), types ...token.Type) (ast.Expr, error) {
	expr, err := next()
	if err != nil {
		return nil, err
	}
	for p.checkAny(types...) {
		op := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return expr, nil
}

func (p *Parser) unary() (ast.Expr, error) {
	if p.checkAny(token.BANG, token.MINUS) {
		op := p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Operator: op, Operand: operand}, nil
	}
	return p.call()
}

func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.check(token.LEFT_PAREN) {
		p.advance()
		expr, err = p.finishCall(expr)
		if err != nil {
			return nil, err
		}
	}
	return expr, nil
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(args) >= maxArgs {
				p.errorAt(p.peek(), "Can't have more than 255 arguments.")
			}
			// Arguments bind at conditional precedence, not full
			// expression, so a top-level comma separates arguments
			// rather than forming a comma expression.
			arg, err := p.conditional()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(token.RIGHT_PAREN, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee, Paren: paren, Args: args}, nil
}

// primary also hosts the error productions: a binary or ternary operator
// appearing where an operand is expected reports "Missing left-hand
// operand", consumes the right-hand side at the matching precedence for a
// better diagnostic than a bare "Expect expression.", and yields a nil
// expression node the caller should not rely on for anything but recovery.
func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: false}, nil
	case p.match(token.TRUE):
		return &ast.Literal{Value: true}, nil
	case p.match(token.NIL):
		return &ast.Literal{Value: nil}, nil
	case p.checkAny(token.NUMBER, token.STRING):
		tok := p.advance()
		return &ast.Literal{Value: tok.Literal}, nil
	case p.check(token.IDENTIFIER):
		return &ast.Variable{Name: p.advance()}, nil
	case p.match(token.LEFT_PAREN):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RIGHT_PAREN, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.Grouping{Inner: expr}, nil

	case p.checkAny(token.BANG_EQUAL, token.EQUAL_EQUAL):
		return p.missingLeftOperand(p.equality)
	case p.checkAny(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL):
		return p.missingLeftOperand(p.comparison)
	case p.check(token.PLUS):
		return p.missingLeftOperand(p.term)
	case p.checkAny(token.STAR, token.SLASH):
		return p.missingLeftOperand(p.factor)
	case p.check(token.QUESTION):
		return p.missingLeftOperand(p.conditional)
	}

	return nil, p.errorAt(p.peek(), "Expect expression.")
}

func (p *Parser) missingLeftOperand(consumeRight func() (ast.Expr, error)) (ast.Expr, error) {
	tok := p.advance()
	p.errorAt(tok, "Missing left-hand operand.")
	if _, err := consumeRight(); err != nil {
		return nil, err
	}
	return nil, nil
}

// --- token cursor ---

func (p *Parser) advance() token.Token {
	tok := p.current()
	if !p.isAtEnd() {
		p.pos++
	}
	return tok
}

func (p *Parser) current() token.Token { return p.tokens[p.pos] }

func (p *Parser) peek() token.Token { return p.current() }

func (p *Parser) isAtEnd() bool { return p.current().Type == token.EOF }

func (p *Parser) check(t token.Type) bool {
	return !p.isAtEnd() && p.current().Type == t
}

func (p *Parser) checkAny(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			return true
		}
	}
	return false
}

func (p *Parser) match(types ...token.Type) bool {
	if p.checkAny(types...) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) consume(t token.Type, message string) (token.Token, error) {
	if p.check(t) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.current(), message)
}

// errorAt records a parse error via the reporter and returns it wrapped so
// callers can propagate it up to the nearest synchronisation point.
func (p *Parser) errorAt(tok token.Token, message string) error {
	p.reporter.ErrorAtToken(tok, message)
	return &parseError{}
}

type parseError struct{}

func (*parseError) Error() string { return "parse error" }

// reportAndSync is called at declaration/statement boundaries: the error
// has already been reported, so it just synchronises and drops the
// offending statement.
func (p *Parser) reportAndSync(_ error) {
	p.synchronize()
}

// synchronize advances until either the previous token was ';' or the next
// token starts a statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.tokens[p.pos-1].Type == token.SEMICOLON {
			return
		}
		switch p.current().Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
