package azure

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resourcegraph/armresourcegraph"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/restapi"
	"github.com/sujayvsarma/armclient/types"
)

type IResourceGraphClient interface {
	GetResources(ctx context.Context) ([]types.AzureObjectBase, error)
}

type ResourceGraphClient struct {
	ManagementGroupIDs       []*string
	SubscriptionIDs          []*string
	IgnoreResourceIDPatterns []*regexp.Regexp
	ResourceGraphQueries     []types.ResourceGraphQuery
	Logger                   *logrus.Logger

	client *armresourcegraph.Client
}

func NewResourceGraphClient(credential azcore.TokenCredential, clientOptions *arm.ClientOptions, managementGroupIDs []string, subscriptionIDs []string, ignoreResourceIDPatterns []string, resourceGraphQueries []types.ResourceGraphQuery, logger *logrus.Logger) (*ResourceGraphClient, error) {
	if len(subscriptionIDs) == 0 && len(managementGroupIDs) == 0 {
		return nil, &restapi.ArgumentError{Name: "subscriptionIDs", Reason: "subscription IDs or management group IDs must be provided"}
	}
	for _, subscriptionID := range subscriptionIDs {
		parsed, err := uuid.Parse(subscriptionID)
		if err != nil || parsed == uuid.Nil {
			return nil, &restapi.ArgumentError{Name: "subscriptionIDs", Reason: fmt.Sprintf("invalid subscription ID %q", subscriptionID)}
		}
	}
	for _, query := range resourceGraphQueries {
		if err := query.Validate(); err != nil {
			return nil, &restapi.ArgumentError{Name: "resourceGraphQueries", Reason: err.Error()}
		}
	}

	patterns := make([]*regexp.Regexp, 0, len(ignoreResourceIDPatterns))
	for _, pattern := range ignoreResourceIDPatterns {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &restapi.ArgumentError{Name: "ignoreResourceIDPatterns", Reason: err.Error()}
		}
		patterns = append(patterns, compiled)
	}

	client, err := armresourcegraph.NewClient(credential, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("azure.NewResourceGraphClient: %w", err)
	}

	return &ResourceGraphClient{
		ManagementGroupIDs:       to.SliceOfPtrs(managementGroupIDs...),
		SubscriptionIDs:          to.SliceOfPtrs(subscriptionIDs...),
		IgnoreResourceIDPatterns: patterns,
		ResourceGraphQueries:     resourceGraphQueries,
		Logger:                   restapi.LoggerOrDiscard(logger),
		client:                   client,
	}, nil
}

// GetResources runs every query for its scope and returns the distinct resources in the order first seen.
func (graph *ResourceGraphClient) GetResources(ctx context.Context) ([]types.AzureObjectBase, error) {
	seen := map[string]bool{}
	resources := []types.AzureObjectBase{}

	if len(graph.SubscriptionIDs) > 0 {
		graph.Logger.Info("Running graph queries for Subscriptions")
		queryRequest := armresourcegraph.QueryRequest{Subscriptions: graph.SubscriptionIDs}
		if err := graph.getResources(ctx, types.ResourceGraphQueryScopeSubscription, queryRequest, seen, &resources); err != nil {
			return nil, err
		}
	}

	if len(graph.ManagementGroupIDs) > 0 {
		graph.Logger.Info("Running graph queries for Management Groups")
		queryRequest := armresourcegraph.QueryRequest{ManagementGroups: graph.ManagementGroupIDs}
		if err := graph.getResources(ctx, types.ResourceGraphQueryScopeManagementGroup, queryRequest, seen, &resources); err != nil {
			return nil, err
		}
	}

	return resources, nil
}

func (graph *ResourceGraphClient) getResources(ctx context.Context, scope types.ResourceGraphQueryScope, queryRequest armresourcegraph.QueryRequest, seen map[string]bool, resources *[]types.AzureObjectBase) error {
	for _, query := range graph.ResourceGraphQueries {
		if query.Scope != scope {
			graph.Logger.Debugf("Skipping query %s for scope %s", query.Name, scope)
			continue
		}

		graph.Logger.Infof("Running Resource Graph Query: %s", query.Name)
		graph.Logger.Tracef("Query: %s", query.Query)

		queryRequest.Query = to.Ptr(query.Query)
		queryRequest.Options = &armresourcegraph.QueryRequestOptions{
			AuthorizationScopeFilter: to.Ptr(armresourcegraph.AuthorizationScopeFilterAtScopeAndBelow),
			ResultFormat:             to.Ptr(armresourcegraph.ResultFormatObjectArray),
		}

		for page := 1; ; page++ {
			res, err := graph.client.Resources(ctx, queryRequest, nil)
			if err != nil {
				return fmt.Errorf("azure.GetResources: query %s page %d: %w", query.Name, page, err)
			}

			rows, ok := res.Data.([]any)
			if !ok {
				return fmt.Errorf("azure.GetResources: query %s returned %T, expected an object array", query.Name, res.Data)
			}
			for _, row := range rows {
				resource, err := toAzureObject(row)
				if err != nil {
					return fmt.Errorf("azure.GetResources: query %s: %w", query.Name, err)
				}
				graph.add(resource, seen, resources)
			}

			if res.SkipToken == nil || *res.SkipToken == "" {
				break
			}
			graph.Logger.Debugf("Query %s continues with page %d", query.Name, page+1)
			queryRequest.Options.SkipToken = res.SkipToken
		}
	}

	return nil
}

func (graph *ResourceGraphClient) add(resource types.AzureObjectBase, seen map[string]bool, resources *[]types.AzureObjectBase) {
	for _, pattern := range graph.IgnoreResourceIDPatterns {
		if pattern.MatchString(resource.ResourceId) {
			graph.Logger.Tracef("Ignoring Resource ID: %s", resource.ResourceId)
			return
		}
	}

	key := strings.ToLower(resource.ResourceId)
	if seen[key] {
		graph.Logger.Tracef("Skipping duplicate Resource ID: %s", resource.ResourceId)
		return
	}
	seen[key] = true

	graph.Logger.Tracef("Adding Resource ID: %s", resource.ResourceId)
	*resources = append(*resources, resource)
}

func toAzureObject(row any) (types.AzureObjectBase, error) {
	fields, ok := row.(map[string]any)
	if !ok {
		return types.AzureObjectBase{}, fmt.Errorf("row is %T, expected an object", row)
	}

	id, _ := fields["id"].(string)
	if id == "" {
		return types.AzureObjectBase{}, fmt.Errorf("row has no id column")
	}

	resource := types.AzureObjectBase{ResourceId: id}
	resource.Name, _ = fields["name"].(string)
	resource.Type, _ = fields["type"].(string)
	resource.Location, _ = fields["location"].(string)
	if tags, ok := fields["tags"].(map[string]any); ok && len(tags) > 0 {
		resource.Tags = make(map[string]string, len(tags))
		for key, value := range tags {
			if text, ok := value.(string); ok {
				resource.Tags[key] = text
			}
		}
	}
	return resource, nil
}
