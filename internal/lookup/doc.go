// Package lookup fills in business contact details that an email did not
// mention. It searches the web with Google Custom Search, reads the pages it
// finds for social media links and classifies every URL by domain.
//
// Lookups are best-effort: callers keep whatever they already had when a
// lookup fails.
package lookup
