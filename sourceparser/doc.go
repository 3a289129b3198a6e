// Package sourceparser reads generated validation source back into the IR.
//
// The parser works on the Go AST, not on text: it resolves the import that
// binds the valid DSL package by import path, so aliased imports parse
// correctly and a foreign package that happens to be named "valid" is
// rejected. Each top-level var declaration whose initializer is rooted in
// the DSL becomes one IR component.
//
// Failures are collected per declaration rather than aborting the file: one
// hand-edited declaration that no longer matches the DSL leaves every other
// declaration usable. Each failure carries a stable code (see the Code*
// constants) so tools can branch on the failure class.
package sourceparser
