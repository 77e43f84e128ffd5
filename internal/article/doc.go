// Package article renders the "Why Small Businesses Matter" feature article
// from the profile extracted out of an Answers email.
//
// Generate is a pure function: it makes no model calls and performs no I/O.
// Every optional field has a fallback, and the rendered output never
// contains the literal "undefined".
package article
