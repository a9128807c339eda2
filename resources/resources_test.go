package resources

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujayvsarma/armclient/restapi"
	"github.com/sujayvsarma/armclient/restapi/restapitest"
	"github.com/sujayvsarma/armclient/types"
)

var testSubscription = uuid.MustParse("5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c")

const groupPathPrefix = "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/resourceGroups/"

func TestResourceGroupClient_Get(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodGet, groupPathPrefix+"rg1", http.StatusOK, `{
		"id": "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/resourceGroups/rg1",
		"name": "rg1",
		"type": "Microsoft.Resources/resourceGroups",
		"location": "westeurope",
		"properties": {"provisioningState": "Succeeded"}
	}`)

	groups := NewResourceGroupClient(server.Client(), nil)
	group, err := groups.Get(context.Background(), testSubscription, "rg1")

	require.NoError(t, err)
	assert.Equal(t, "westeurope", group.Location)
	assert.Equal(t, types.ProvisioningStateSucceeded, group.Properties.ProvisioningState)
	assert.True(t, group.HasConsistentType())
	assert.Equal(t, ResourceGroupsAPIVersion, server.LastCall().APIVersion)
}

func TestResourceGroupClient_GetMissing(t *testing.T) {
	server := restapitest.NewServer(t)

	groups := NewResourceGroupClient(server.Client(), nil)
	group, err := groups.Get(context.Background(), testSubscription, "missing")

	assert.Nil(t, group)
	assert.True(t, restapi.IsNotFound(err))
}

func TestResourceGroupClient_ValidatesBeforeSending(t *testing.T) {
	server := restapitest.NewServer(t)
	groups := NewResourceGroupClient(server.Client(), nil)

	_, err := groups.Get(context.Background(), uuid.Nil, "rg1")
	var argumentError *restapi.ArgumentError
	require.ErrorAs(t, err, &argumentError)
	assert.Equal(t, "subscription", argumentError.Name)

	_, err = groups.Get(context.Background(), testSubscription, " ")
	require.ErrorAs(t, err, &argumentError)
	assert.Equal(t, "resourceGroupName", argumentError.Name)

	_, err = groups.CreateOrUpdate(context.Background(), testSubscription, "rg1", ResourceGroup{})
	require.ErrorAs(t, err, &argumentError)
	assert.Equal(t, "location", argumentError.Name)

	assert.Empty(t, server.Calls())
}

func TestResourceGroupClient_Exists(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodHead, groupPathPrefix+"rg1", http.StatusNoContent, nil)

	groups := NewResourceGroupClient(server.Client(), nil)

	exists, err := groups.Exists(context.Background(), testSubscription, "rg1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = groups.Exists(context.Background(), testSubscription, "rg2")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestResourceGroupClient_CreateOrUpdate(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodPut, groupPathPrefix+"rg1", http.StatusCreated, `{"name":"rg1","location":"westeurope","tags":{"env":"dev"}}`)

	groups := NewResourceGroupClient(server.Client(), nil, restapi.WithAPIVersion("2020-06-01"))
	group, err := groups.CreateOrUpdate(context.Background(), testSubscription, "rg1", NewResourceGroup("westeurope", map[string]string{"env": "dev"}))

	require.NoError(t, err)
	assert.Equal(t, "dev", group.Tags["env"])

	call := server.LastCall()
	assert.Equal(t, "2020-06-01", call.APIVersion)
	assert.JSONEq(t, `{"location":"westeurope","tags":{"env":"dev"}}`, call.Body)
	assert.Equal(t, "2020-06-01", groups.APIVersion())
}

func TestResourceGroupClient_UpdateTags(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodPatch, groupPathPrefix+"rg1", http.StatusOK, `{"name":"rg1","tags":{}}`)

	groups := NewResourceGroupClient(server.Client(), nil)
	_, err := groups.UpdateTags(context.Background(), testSubscription, "rg1", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"tags":{}}`, server.LastCall().Body)
}

func TestResourceGroupClient_Delete(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodDelete, groupPathPrefix+"rg1", http.StatusAccepted, nil)
	server.Handle(http.MethodDelete, groupPathPrefix+"locked", http.StatusConflict, `{"error":{"code":"ScopeLocked","message":"locked"}}`)

	groups := NewResourceGroupClient(server.Client(), nil)

	deleted, err := groups.Delete(context.Background(), testSubscription, "rg1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = groups.Delete(context.Background(), testSubscription, "gone")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = groups.Delete(context.Background(), testSubscription, "locked")
	assert.False(t, deleted)
	var responseError *restapi.ResponseError
	require.ErrorAs(t, err, &responseError)
	assert.Equal(t, "ScopeLocked", responseError.Detail.Code)
}

func TestResourceGroupClient_ListFollowsNextLink(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodGet, groupPathPrefix[:len(groupPathPrefix)-1], http.StatusOK, map[string]any{
		"value":    []map[string]string{{"name": "rg1"}},
		"nextLink": server.URL + "/page2?api-version=2021-04-01",
	})
	server.Handle(http.MethodGet, "/page2", http.StatusOK, `{"value":[{"name":"rg2"}]}`)

	groups := NewResourceGroupClient(server.Client(), nil)
	values, err := groups.List(context.Background(), testSubscription)

	require.NoError(t, err)
	require.Len(t, values, 2)
	assert.Equal(t, "rg1", values[0].Name)
	assert.Equal(t, "rg2", values[1].Name)
}

func TestResourceGroupClient_ExportTemplate(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodPost, groupPathPrefix+"rg1/exportTemplate", http.StatusOK, `{"template":{"resources":[]}}`)

	groups := NewResourceGroupClient(server.Client(), nil)
	result, err := groups.ExportTemplate(context.Background(), testSubscription, "rg1", nil)

	require.NoError(t, err)
	assert.JSONEq(t, `{"resources":[]}`, string(result.Template))
	assert.JSONEq(t, `{"resources":["*"],"options":"IncludeParameterDefaultValue"}`, server.LastCall().Body)
}

func TestResourceGroupClient_ListResourcesKeepsExtensions(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodGet, groupPathPrefix+"rg1/resources", http.StatusOK, `{"value":[{"name":"vm1","type":"Microsoft.Compute/virtualMachines","changedTime":"2024-01-01T00:00:00Z"}]}`)

	groups := NewResourceGroupClient(server.Client(), nil)
	values, err := groups.ListResources(context.Background(), testSubscription, "rg1")

	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, []string{"changedTime"}, values[0].Keys())
}

func TestSubscriptionClient(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodGet, "/subscriptions", http.StatusOK, `{"value":[{
		"subscriptionId":"5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c",
		"displayName":"Production",
		"state":"Warned",
		"subscriptionPolicies":{"spendingLimit":"CurrentPeriodOff"}
	}]}`)
	server.Handle(http.MethodGet, "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/locations", http.StatusOK, `{"value":[{"name":"westeurope","displayName":"West Europe"}]}`)

	subscriptions := NewSubscriptionClient(server.Client(), nil)

	values, err := subscriptions.List(context.Background())
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, testSubscription, values[0].SubscriptionId)
	assert.Equal(t, SubscriptionStateWarned, values[0].State)
	assert.Equal(t, SpendingLimitCurrentPeriodOff, values[0].Policies.SpendingLimit)

	locations, err := subscriptions.ListLocations(context.Background(), testSubscription)
	require.NoError(t, err)
	assert.Equal(t, "West Europe", locations[0].DisplayName)
	assert.Equal(t, SubscriptionsAPIVersion, server.LastCall().APIVersion)
}

func TestProviderClient_Register(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodPost, "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/providers/Microsoft.Web/register", http.StatusOK, `{
		"namespace":"Microsoft.Web",
		"registrationState":"Registering",
		"resourceTypes":[{"resourceType":"sites","apiVersions":["2024-01-01-preview","2023-12-01","2022-03-01"]}]
	}`)

	providers := NewProviderClient(server.Client(), nil)
	provider, err := providers.Register(context.Background(), testSubscription, "Microsoft.Web")

	require.NoError(t, err)
	assert.Equal(t, RegistrationStateRegistering, provider.RegistrationState)

	version, ok := provider.LatestApiVersion("Sites", false)
	assert.True(t, ok)
	assert.Equal(t, "2023-12-01", version)

	version, _ = provider.LatestApiVersion("sites", true)
	assert.Equal(t, "2024-01-01-preview", version)

	_, ok = provider.LatestApiVersion("serverfarms", true)
	assert.False(t, ok)
}

func TestDeploymentClient(t *testing.T) {
	server := restapitest.NewServer(t)
	deploymentPath := groupPathPrefix + "rg1/providers/Microsoft.Resources/deployments/deploy1"
	server.Handle(http.MethodPut, deploymentPath, http.StatusCreated, `{"name":"deploy1","properties":{"mode":"Complete","provisioningState":"Accepted"}}`)
	server.Handle(http.MethodPost, deploymentPath+"/validate", http.StatusBadRequest, `{"error":{"code":"InvalidTemplate","message":"bad"}}`)
	server.Handle(http.MethodPost, deploymentPath+"/cancel", http.StatusNoContent, nil)

	deployments := NewDeploymentClient(server.Client(), nil)
	deployment := NewDeployment(DeploymentModeComplete, []byte(`{"resources":[]}`), nil)

	created, err := deployments.CreateOrUpdate(context.Background(), testSubscription, "rg1", "deploy1", deployment)
	require.NoError(t, err)
	assert.Equal(t, types.ProvisioningStateAccepted, created.Properties.ProvisioningState)
	assert.JSONEq(t, `{"properties":{"mode":"Complete","template":{"resources":[]}}}`, server.LastCall().Body)

	validation, err := deployments.Validate(context.Background(), testSubscription, "rg1", "deploy1", deployment)
	require.NoError(t, err)
	assert.Equal(t, "InvalidTemplate", validation.Error.Code)

	assert.NoError(t, deployments.Cancel(context.Background(), testSubscription, "rg1", "deploy1"))

	_, err = deployments.CreateOrUpdate(context.Background(), testSubscription, "rg1", "deploy1", Deployment{})
	var argumentError *restapi.ArgumentError
	assert.ErrorAs(t, err, &argumentError)
}

func TestTagClient(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodPut, "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/tagNames/cost center/tagValues/r&d", http.StatusCreated, `{"tagValue":"r&d"}`)
	server.Handle(http.MethodDelete, "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/tagNames/env", http.StatusOK, nil)

	tags := NewTagClient(server.Client(), nil)

	value, err := tags.CreateOrUpdateValue(context.Background(), testSubscription, "cost center", "r&d")
	require.NoError(t, err)
	assert.Equal(t, "r&d", value.TagValue)

	deleted, err := tags.Delete(context.Background(), testSubscription, "env")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = tags.DeleteValue(context.Background(), testSubscription, "env", "prod")
	require.NoError(t, err)
	assert.False(t, deleted)
}

type mockResourceGroupClient struct {
	IResourceGroupClient

	mu     sync.Mutex
	Groups map[uuid.UUID][]ResourceGroup
	Err    error
	Called int
}

func (m *mockResourceGroupClient) List(ctx context.Context, subscription uuid.UUID) ([]ResourceGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Called++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Groups[subscription], nil
}

func TestListResourceGroupsForSubscriptions(t *testing.T) {
	other := uuid.MustParse("0b1c2d3e-4f50-6172-8394-a5b6c7d8e9f0")
	mock := &mockResourceGroupClient{Groups: map[uuid.UUID][]ResourceGroup{
		testSubscription: {NewResourceGroup("westeurope", nil)},
		other:            {NewResourceGroup("eastus", nil), NewResourceGroup("westus", nil)},
	}}

	results, err := ListResourceGroupsForSubscriptions(context.Background(), mock, []uuid.UUID{testSubscription, other}, 2)

	require.NoError(t, err)
	assert.Equal(t, 2, mock.Called)
	assert.Len(t, results[testSubscription], 1)
	assert.Len(t, results[other], 2)
}

func TestListResourceGroupsForSubscriptions_Error(t *testing.T) {
	mock := &mockResourceGroupClient{Err: errors.New("boom")}

	results, err := ListResourceGroupsForSubscriptions(context.Background(), mock, []uuid.UUID{testSubscription}, 0)

	assert.Nil(t, results)
	assert.ErrorContains(t, err, "boom")
}

func TestSubscriptionClient_UnknownStates(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodGet, "/subscriptions", http.StatusOK, `{"value":[
		{"subscriptionId":"5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c","state":"Expired","subscriptionPolicies":{"spendingLimit":"Capped"}}
	]}`)
	server.Handle(http.MethodGet, "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/providers/Microsoft.Web", http.StatusOK,
		`{"namespace":"Microsoft.Web","registrationState":"PendingApproval"}`)

	values, err := NewSubscriptionClient(server.Client(), nil).List(context.Background())
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, SubscriptionStateUnknown, values[0].State)
	assert.Equal(t, SpendingLimitUnknown, values[0].Policies.SpendingLimit)

	provider, err := NewProviderClient(server.Client(), nil).Get(context.Background(), testSubscription, "Microsoft.Web")
	require.NoError(t, err)
	assert.Equal(t, RegistrationStateUnknown, provider.RegistrationState)
}
