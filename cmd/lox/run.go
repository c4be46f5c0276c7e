package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/interpreter"
	"github.com/aledsdavies/lox/pkgs/lexer"
	"github.com/aledsdavies/lox/pkgs/parser"
)

// runFile scans, parses and interprets a single source file, returning the
// process exit code: 0 on success, 65 if scanning or parsing failed, 70 if
// the program ran but raised a runtime error.
func runFile(path string, stdout io.Writer) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return exitUsage
	}

	reporter := errors.New(os.Stderr)
	interp := interpreter.New(reporter, stdout)

	if !interpret(source, reporter, interp) {
		if reporter.HadError() {
			return exitSyntax
		}
		if reporter.HadRuntimeError() {
			return exitRuntime
		}
	}
	return exitSuccess
}

// interpret scans, parses and — if parsing succeeded cleanly — interprets
// source with interp. It returns false if either phase reported an error,
// matching "execution is skipped" from the scanner/parser contract.
func interpret(source []byte, reporter *errors.Reporter, interp *interpreter.Interpreter) bool {
	scanner := lexer.New(string(source), reporter)
	tokens := scanner.ScanTokens()
	if reporter.HadError() {
		return false
	}

	p := parser.New(tokens, reporter)
	statements := p.Parse()
	if reporter.HadError() {
		return false
	}

	interp.Interpret(statements)
	return !reporter.HadRuntimeError()
}
