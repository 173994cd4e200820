// Package scribe generates text from grammars of bracket rules.
//
// A grammar is a set of named [Cognate] values. Each cognate holds one or
// more [Group] values, and each group holds [Rule] alternatives plus a set of
// tags. Generating a cognate picks one rule among the groups whose tags are
// compatible with the current [Context], merges that group's tags into the
// context, and evaluates the rule's tokens (see package lang), recursively
// generating every cognate the rule refers to.
//
// Selection is weighted by rule count: every rule of every accepted group is
// equally likely. Tags accumulate for the whole of one generation call, so a
// choice made early constrains every later choice. Bindings are scoped to the
// expansion that made them.
//
// Grammars are usually loaded from YAML documents:
//
//	- name: animal
//	  groups:
//	    - tags: { size: big }
//	      rules: [elephant, whale]
//	    - tags: { size: small }
//	      rules: [mouse, milk snake]
//	- name: sighting
//	  groups:
//	    - rules: ["<(cap (an animal))> was seen near the <!place>."]
//
// Then:
//
//	s := scribe.New()
//	if err := s.LoadFile(ctx, "animals.yml"); err != nil {
//		return err
//	}
//	text, err := s.Generate(ctx, "sighting")
package scribe
