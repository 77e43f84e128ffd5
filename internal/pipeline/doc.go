// Package pipeline turns inbox emails into campaign artifacts.
//
// An email is classified into one of a fixed set of categories and handed to
// the matching handler. Reply categories get a generated reply, Answers
// emails become a published-ready article, nomination emails produce
// interview invitations for the nominated businesses, and spam is simply
// archived.
//
// The Loop processes one email at a time. Everything an email costs is
// recorded in a usage ledger that is reset before the next email starts, and
// a failed email is left in the inbox so the next run picks it up again.
package pipeline
