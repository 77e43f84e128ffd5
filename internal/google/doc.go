// Package google provides OAuth2 authentication and token storage for the
// Gmail account the agent works on.
//
// Tokens are kept per account as JSON files in the user cache directory and
// refreshed tokens are written back. Client credentials are supplied by the
// caller; nothing is compiled into the binary.
package google
