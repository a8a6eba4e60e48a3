// Package extends resolves "extends" relationships between schema
// definitions into a flat list of merged concrete definitions.
//
// The input is one list holding documents, abstracts (literals or
// parameterized resolvers) and plain objects. Each document is walked
// depth-first through its extends entries; every ancestor is merged in with
// Merge, oldest ancestor first. Abstracts never appear in the output and
// objects pass through untouched.
//
// Typical use:
//
//	defs, err := extends.ResolveExtends([]extends.Type{seo, article, author})
//
// or, from a configuration pipeline that already produced some types:
//
//	resolve := extends.WithExtends(pluginTypes)
//	defs, err := resolve(previous)
package extends
