// Package match implements the location resolution pipeline: a fuzzy text
// matcher, a semantic matcher over an in-memory vector index, a coordinate
// radius search, and the Resolver that cascades text strategies in order
// until one yields a result.
//
// The cascade is an explicit ordered strategy list, not exception-driven
// control flow: each strategy returns matches or an error, and the resolver
// degrades to the next strategy on either an error or an empty result. Only
// exhausting every strategy produces domain.ErrNoMatch.
package match
