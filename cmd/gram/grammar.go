package main

import (
	"github.com/dhamidi/gram/engine"
	"github.com/dhamidi/gram/rule"
)

const (
	tokenName rule.TokenKind = iota + 1
	tokenNumber
	tokenKeyword
	tokenPunct
	tokenSpace
)

// demoGrammar builds the grammar the CLI and LSP server operate on:
// semicolon-separated declarations, e.g. "let x = 1; y; let z = w".
// Identifiers starting with "__" are reserved for the implementation.
func demoGrammar() *rule.Production {
	ws := rule.Token(tokenSpace, engine.While(engine.ASCIIBlank))

	id := rule.Identifier(tokenName, engine.ASCIIAlphaUnderscore, engine.ASCIIWord).
		Reserve("let", "end").
		ReservePrefix("__")

	number := rule.Capture(tokenNumber,
		engine.Seq(engine.DigitDecimal, engine.While(engine.DigitDecimal)))

	atom := rule.NewProduction("atom", rule.Transparent()).
		Define(rule.Choice(id, number))

	decl := rule.NewProduction("declaration").Define(rule.Seq(
		rule.Choice(
			rule.Seq(id.Keyword(tokenKeyword, "let"), ws, id, ws,
				rule.Lit(tokenPunct, "="), ws, atom),
			atom,
		),
		ws,
	))

	return rule.NewProduction("file").Define(rule.Seq(
		ws,
		decl,
		rule.Loop(rule.Seq(rule.Lit(tokenPunct, ";"), ws, decl)),
		rule.EOF(),
	))
}
