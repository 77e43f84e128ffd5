// Package usage tracks token counts and cost per model variant.
//
// A Ledger holds one entry per variant in a fixed order. Model calls record
// into it, Report renders it for persistence, and Track scopes it to one unit
// of work so that each email is accounted for independently:
//
//	err := ledger.Track(func() error {
//	    return process(ctx, email)
//	})
package usage
