// Package environment implements the lexically nested name→value mapping
// that backs variable scoping and closures.
package environment

import (
	"github.com/aledsdavies/lox/pkgs/errors"
	"github.com/aledsdavies/lox/pkgs/token"
)

// Environment is one scope node. A function call creates a fresh node whose
// Enclosing pointer is the function's capture environment, not the
// caller's — this is what realises lexical closure.
type Environment struct {
	Enclosing *Environment
	values    map[string]any
}

// New creates a scope. A nil enclosing marks the global scope.
func New(enclosing *Environment) *Environment {
	return &Environment{Enclosing: enclosing, values: make(map[string]any)}
}

// Define always targets this environment, shadowing any outer binding of
// the same name.
func (e *Environment) Define(name string, value any) {
	e.values[name] = value
}

// Get searches outward through the chain for name.
func (e *Environment) Get(name token.Token) (any, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.Enclosing != nil {
		return e.Enclosing.Get(name)
	}
	return nil, errors.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Assign rebinds an existing binding found by searching outward through the
// chain; it never creates a new one.
func (e *Environment) Assign(name token.Token, value any) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.Enclosing != nil {
		return e.Enclosing.Assign(name, value)
	}
	return errors.NewRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Names returns every name visible from this environment outward, used to
// build "did you mean" suggestions on a lookup miss.
func (e *Environment) Names() []string {
	var names []string
	for env := e; env != nil; env = env.Enclosing {
		for name := range env.values {
			names = append(names, name)
		}
	}
	return names
}
