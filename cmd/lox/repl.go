package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/interpreter"
)

const prompt = "> "

// runREPL reads one line at a time from in, scanning, parsing and
// interpreting it against a single shared Interpreter so that variables and
// function definitions persist across prompts. Both error flags are reset
// between lines so one bad line never makes later lines appear to fail.
func runREPL(in io.Reader, out io.Writer) {
	reporter := errors.New(out)
	interp := interpreter.New(reporter, out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		interpret([]byte(line), reporter, interp)
		reporter.Reset()
	}
}
