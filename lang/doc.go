// Package lang parses the rule language used by annals grammars.
//
// A rule is plain text with substitutions enclosed in angle brackets. The
// parser turns one rule into an ordered sequence of [Token] values that the
// expansion engine in package scribe evaluates. Parsing is a pure function of
// the rule text; nothing here knows about cognates, groups or contexts.
//
// # Grammar
//
// Informal EBNF:
//
//	Rule         → (Literal | '<' Substitution '>')+
//	Literal      → (any rune except unescaped '<' or '>')+
//	Substitution → Command | Name | '@' Name | '!' Name
//	             | '#' Integer '-' Integer | '$' Name ':' Name
//	Command      → '(' Keyword ' ' Substitution ')'
//	Keyword      → cap | capitalize | low | lowercase
//	             | title | titlecase | a | an
//	Name         → (letter | digit | '_' | '-')+
//
// A backslash before a bracket (\< or \>) escapes it. Escaped brackets are
// emitted literally and never open or close a substitution.
//
// # Substitutions
//
//	<animal>          expand the cognate "animal"
//	<!animal>         expand "animal" once and reuse the result in this scope
//	<@speaker>        read the binding "speaker"
//	<#1-100>          random integer in [1, 100)
//	<$pet:animal>     expand "animal" into the binding "pet"
//	<(an animal)>     apply a text command to a nested substitution
//
// # Errors
//
// Every failure is a [*ParseError] carrying the [Kind] of failure and, when
// available, the half-open rune span of the offending text. Use
// [ParseError.Diagnostic] for a caret display:
//
//	Hello <@some binding>!
//	       ^^^^^^^^^^^^^
package lang
