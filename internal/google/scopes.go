package google

import gmail "google.golang.org/api/gmail/v1"

// DefaultOAuthScopes are the scopes the agent requests. Reading the inbox and
// archiving messages both fall under gmail.modify.
var DefaultOAuthScopes = []string{
	gmail.GmailModifyScope,
}
