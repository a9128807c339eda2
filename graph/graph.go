package graph

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sujayvsarma/armclient/resources"
	"github.com/sujayvsarma/armclient/restapi"
	"github.com/sujayvsarma/armclient/types"
)

// Graph walks subscriptions through the Resource Manager list APIs: every resource group, then
// every resource inside it. It is the fallback for callers without Resource Graph access.
type Graph struct {
	SubscriptionIDs          []uuid.UUID
	IgnoreResourceIDPatterns []*regexp.Regexp
	Parallelism              int
	Groups                   resources.IResourceGroupClient
	Logger                   *logrus.Logger
}

func NewGraph(groups resources.IResourceGroupClient, subscriptionIDs []uuid.UUID, ignoreResourceIDPatterns []string, parallelism int, logger *logrus.Logger) (*Graph, error) {
	patterns := make([]*regexp.Regexp, 0, len(ignoreResourceIDPatterns))
	for _, pattern := range ignoreResourceIDPatterns {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		patterns = append(patterns, compiled)
	}
	if parallelism < 1 {
		parallelism = resources.DefaultParallelism
	}
	return &Graph{
		SubscriptionIDs:          subscriptionIDs,
		IgnoreResourceIDPatterns: patterns,
		Parallelism:              parallelism,
		Groups:                   groups,
		Logger:                   restapi.LoggerOrDiscard(logger),
	}, nil
}

// GetResources returns each resource group followed by its resources, subscription by subscription.
func (graph *Graph) GetResources(ctx context.Context) ([]types.AzureObjectBase, error) {
	groupsBySubscription, err := resources.ListResourceGroupsForSubscriptions(ctx, graph.Groups, graph.SubscriptionIDs, graph.Parallelism)
	if err != nil {
		return nil, err
	}

	found := []types.AzureObjectBase{}
	seen := map[string]bool{}
	for _, subscriptionID := range graph.SubscriptionIDs {
		graph.Logger.Infof("Checking Subscription ID: %s", subscriptionID)

		resourceGroups := groupsBySubscription[subscriptionID]
		contents, err := graph.getResources(ctx, subscriptionID, resourceGroups)
		if err != nil {
			return nil, err
		}

		for i, resourceGroup := range resourceGroups {
			if !graph.add(resourceGroup.AzureObjectBase, seen, &found) {
				continue
			}
			for _, resource := range contents[i] {
				graph.add(resource.AzureObjectBase, seen, &found)
			}
		}
	}
	return found, nil
}

func (graph *Graph) getResources(ctx context.Context, subscriptionID uuid.UUID, resourceGroups []resources.ResourceGroup) ([][]types.GenericResource, error) {
	contents := make([][]types.GenericResource, len(resourceGroups))

	grp, ctxErrGroup := errgroup.WithContext(ctx)
	grp.SetLimit(graph.Parallelism)
	for i, resourceGroup := range resourceGroups {
		if graph.ignored(resourceGroup.ResourceId) {
			continue
		}
		grp.Go(func() error {
			values, err := graph.Groups.ListResources(ctxErrGroup, subscriptionID, resourceGroup.Name)
			if err != nil {
				return fmt.Errorf("listing resources of %s: %w", resourceGroup.Name, err)
			}
			contents[i] = values
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}

func (graph *Graph) ignored(resourceID string) bool {
	for _, pattern := range graph.IgnoreResourceIDPatterns {
		if pattern.MatchString(resourceID) {
			graph.Logger.Tracef("Ignoring Resource ID: %s", resourceID)
			return true
		}
	}
	return false
}

func (graph *Graph) add(resource types.AzureObjectBase, seen map[string]bool, found *[]types.AzureObjectBase) bool {
	if graph.ignored(resource.ResourceId) {
		return false
	}
	key := strings.ToLower(resource.ResourceId)
	if seen[key] {
		return true
	}
	seen[key] = true

	graph.Logger.Tracef("Adding Resource ID: %s", resource.ResourceId)
	*found = append(*found, resource)
	return true
}
