// Package errors implements the interpreter's diagnostic collector. Unlike
// the class-level mutable flags of the reference implementation, Reporter is
// an explicit value the driver constructs and threads through the scanner,
// parser and interpreter.
package errors

import (
	"fmt"
	"io"
	"sort"

	"github.com/aledsdavies/lox/pkgs/token"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// RuntimeError carries the offending token (for its line number) and a
// message. It is raised from expression evaluators and environment lookups
// and caught at Interpret; it is never confused with the control-flow
// signals Return/Break, which are not errors at all.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func NewRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	return e.Message
}

// Reporter is a collector of syntax and runtime errors, scoped to a single
// driver (file run or REPL session). It is safe to use from a
// single goroutine only; the interpreter is synchronous so no locking is
// required.
type Reporter struct {
	out              io.Writer
	hadError         bool
	hadRuntimeError  bool
}

// New creates a Reporter that writes diagnostics to w.
func New(w io.Writer) *Reporter {
	return &Reporter{out: w}
}

// Report prints "[line N] Error WHERE: MESSAGE" and sets the syntax-error
// flag.
func (r *Reporter) Report(line int, where, message string) {
	if where == "" {
		fmt.Fprintf(r.out, "[line %d] Error: %s\n", line, message)
	} else {
		fmt.Fprintf(r.out, "[line %d] Error %s: %s\n", line, where, message)
	}
	r.hadError = true
}

// ErrorAtLine reports a scanner-level error with no location hint.
func (r *Reporter) ErrorAtLine(line int, message string) {
	r.Report(line, "", message)
}

// ErrorAtToken reports a parser-level error, choosing the "at end" or
// "at 'lexeme'" location hint per the token kind.
func (r *Reporter) ErrorAtToken(tok token.Token, message string) {
	if tok.Type == token.EOF {
		r.Report(tok.Line, "at end", message)
	} else {
		r.Report(tok.Line, fmt.Sprintf("at '%s'", tok.Lexeme), message)
	}
}

// RuntimeErr prints "MESSAGE\n[line N]" and sets the runtime-error flag.
// When the error is an undefined-variable error, candidates (the names
// currently visible in the environment chain) are fuzzy-matched to offer a
// "Did you mean 'x'?" hint.
func (r *Reporter) RuntimeErr(err *RuntimeError, candidates []string) {
	message := err.Message
	if hint := suggest(err.Message, candidates); hint != "" {
		message += " " + hint
	}
	fmt.Fprintf(r.out, "%s\n[line %d]\n", message, err.Token.Line)
	r.hadRuntimeError = true
}

func suggest(message string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	name, ok := undefinedName(message)
	if !ok {
		return ""
	}
	sort.Strings(candidates)
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return fmt.Sprintf("Did you mean '%s'?", ranks[0].Target)
}

// undefinedName extracts the quoted identifier out of an
// "Undefined variable 'x'." style message.
func undefinedName(message string) (string, bool) {
	start := -1
	for i, c := range message {
		if c == '\'' {
			if start == -1 {
				start = i + 1
			} else {
				return message[start:i], true
			}
		}
	}
	return "", false
}

func (r *Reporter) HadError() bool        { return r.hadError }
func (r *Reporter) HadRuntimeError() bool { return r.hadRuntimeError }

// Reset clears the syntax-error flag between REPL lines. The runtime-error
// flag is also cleared, since each REPL line is an independent execution
// that should not make subsequent lines appear to have failed.
func (r *Reporter) Reset() {
	r.hadError = false
	r.hadRuntimeError = false
}
