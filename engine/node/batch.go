package node

import (
	"context"

	"github.com/compozy/chatwoot-nodes/engine/core"
)

// ItemFunc processes one item and returns the JSON payload for its result.
type ItemFunc func(ctx context.Context, index int, item Item) (any, error)

// Each runs fn over items sequentially, in order.
//
// With failFast unset every item yields one result and failures become error
// results. With failFast set the first failure stops the batch and is returned
// as an *ItemError. Configuration errors and caller cancellation always stop
// the batch.
func Each(ctx context.Context, items []Item, failFast bool, fn ItemFunc) ([]Result, error) {
	results := make([]Result, 0, len(items))
	for index, item := range items {
		if err := ctx.Err(); err != nil {
			return results, &ItemError{Index: index, Err: err}
		}
		payload, err := fn(ctx, index, item)
		if err != nil {
			if failFast || IsConfiguration(err) {
				return results, &ItemError{Index: index, Err: err}
			}
			results = append(results, Result{
				Error:      ErrorMessage(err),
				Code:       core.ErrorCode(err),
				PairedItem: &PairedItem{Item: index},
			})
			continue
		}
		results = append(results, Result{JSON: payload, PairedItem: &PairedItem{Item: index}})
	}
	return results, nil
}
