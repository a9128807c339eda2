package resources

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const DefaultParallelism = 4

// ListResourceGroupsForSubscriptions lists the groups of several subscriptions concurrently.
// The first failure cancels the remaining calls.
func ListResourceGroupsForSubscriptions(ctx context.Context, groups IResourceGroupClient, subscriptions []uuid.UUID, parallelism int) (map[uuid.UUID][]ResourceGroup, error) {
	if parallelism < 1 {
		parallelism = DefaultParallelism
	}

	results := make(map[uuid.UUID][]ResourceGroup, len(subscriptions))
	var mu sync.Mutex

	grp, ctxErrGroup := errgroup.WithContext(ctx)
	grp.SetLimit(parallelism)
	for _, subscription := range subscriptions {
		grp.Go(func() error {
			values, err := groups.List(ctxErrGroup, subscription)
			if err != nil {
				return fmt.Errorf("listing resource groups of %s: %w", subscription, err)
			}
			mu.Lock()
			defer mu.Unlock()
			results[subscription] = values
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
