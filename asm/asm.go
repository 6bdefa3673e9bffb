package asm

import "github.com/marysaka/smol/objfile"

// Assemble parses and compiles smol assembly source text into an
// object file. It is a pure function of source: concurrent calls on
// independent inputs are safe.
func Assemble(source string) (*objfile.SmolFile, error) {
	ast, err := Parse(source)
	if err != nil {
		return nil, err
	}
	return Compile(ast)
}
