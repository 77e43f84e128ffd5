// Package settle runs independent tasks concurrently and waits for all of
// them, collecting each task's result or error without cancelling the others.
//
// This is the join used for best-effort fan-out: one failing task never
// prevents its siblings from completing.
//
//	outcomes := settle.All(ctx, len(items), 0, func(ctx context.Context, i int) (Item, error) {
//	    return enrich(ctx, items[i])
//	})
//	summary := settle.Summarize(outcomes)
package settle
