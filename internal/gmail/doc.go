// Package gmail is the mailbox the agent works on. It fetches the messages
// matching a query, turns them into mail.Email records and archives them by
// removing the INBOX label.
//
// Authentication is handled by the google package; the client only needs an
// authorized *http.Client.
package gmail
