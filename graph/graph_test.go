package graph

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujayvsarma/armclient/resources"
	"github.com/sujayvsarma/armclient/types"
)

var subscriptionID = uuid.MustParse("5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c")

type mockGroupClient struct {
	resources.IResourceGroupClient

	mu        sync.Mutex
	Groups    []resources.ResourceGroup
	Resources map[string][]types.GenericResource
	Listed    []string
	Err       error
}

func (m *mockGroupClient) List(ctx context.Context, subscription uuid.UUID) ([]resources.ResourceGroup, error) {
	return m.Groups, nil
}

func (m *mockGroupClient) ListResources(ctx context.Context, subscription uuid.UUID, name string) ([]types.GenericResource, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Listed = append(m.Listed, name)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Resources[name], nil
}

func group(name string) resources.ResourceGroup {
	return resources.ResourceGroup{AzureObjectBase: types.AzureObjectBase{
		ResourceId: "/subscriptions/" + subscriptionID.String() + "/resourceGroups/" + name,
		Name:       name,
		Type:       "Microsoft.Resources/resourceGroups",
	}}
}

func resource(groupName string, provider string, name string) types.GenericResource {
	return types.GenericResource{AzureObjectBase: types.AzureObjectBase{
		ResourceId: "/subscriptions/" + subscriptionID.String() + "/resourceGroups/" + groupName + "/providers/" + provider + "/" + name,
		Name:       name,
		Type:       provider,
	}}
}

func TestGraph_GetResources(t *testing.T) {
	groups := &mockGroupClient{
		Groups: []resources.ResourceGroup{group("rg1"), group("NetworkWatcherRG"), group("rg2")},
		Resources: map[string][]types.GenericResource{
			"rg1": {resource("rg1", "Microsoft.Web/sites", "app1"), resource("rg1", "Microsoft.Storage/storageAccounts", "stdata01")},
			"rg2": {resource("rg2", "Microsoft.Web/sites", "app2")},
		},
	}

	graph, err := NewGraph(groups, []uuid.UUID{subscriptionID}, []string{`(?i)/resourceGroups/NetworkWatcherRG`, `(?i)/storageAccounts/`}, 2, nil)
	require.NoError(t, err)

	found, err := graph.GetResources(context.Background())
	require.NoError(t, err)

	names := []string{}
	for _, object := range found {
		names = append(names, object.Name)
	}
	assert.Equal(t, []string{"rg1", "app1", "rg2", "app2"}, names)
	assert.ElementsMatch(t, []string{"rg1", "rg2"}, groups.Listed)
}

func TestGraph_GetResources_Error(t *testing.T) {
	groups := &mockGroupClient{Groups: []resources.ResourceGroup{group("rg1")}, Err: errors.New("forbidden")}

	graph, err := NewGraph(groups, []uuid.UUID{subscriptionID}, nil, 0, nil)
	require.NoError(t, err)

	_, err = graph.GetResources(context.Background())
	assert.ErrorContains(t, err, "listing resources of rg1: forbidden")
}

func TestNewGraph_InvalidPattern(t *testing.T) {
	_, err := NewGraph(&mockGroupClient{}, nil, []string{"("}, 0, nil)
	assert.ErrorContains(t, err, "invalid ignore pattern")
}

func TestNewGraph_NilLoggerDiscards(t *testing.T) {
	graph, err := NewGraph(&mockGroupClient{}, nil, nil, 0, nil)
	require.NoError(t, err)

	require.NotNil(t, graph.Logger)
	assert.NotSame(t, logrus.StandardLogger(), graph.Logger)
	assert.Equal(t, io.Discard, graph.Logger.Out)
}
