// Package store persists the result of processing an email as a directory of
// plain files under the data directory, one directory per email id.
//
// The presence of an email's directory marks it as processed. Directories
// are written under a temporary name and renamed into place, so a crash
// never leaves a half-written result that would be mistaken for a
// processed email.
package store
