package restapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/sujayvsarma/armclient/resourceuri"
)

// ResourceType performs the common operations on one resource type of a provider,
// e.g. Microsoft.Compute/virtualMachines, decoding bodies as T.
type ResourceType[T any] struct {
	Client     *Client
	Provider   string
	Type       string
	APIVersion string
}

// CollectionPath is the list URL of the type. An empty resourceGroup lists across the subscription.
func (resourceType ResourceType[T]) CollectionPath(subscription uuid.UUID, resourceGroup string) (string, error) {
	if err := RequireSubscription("subscription", subscription); err != nil {
		return "", err
	}
	return resourceuri.New(subscription).
		WithResourceGroup(resourceGroup).
		WithProvider(resourceType.Provider).
		WithType(resourceType.Type).
		Build()
}

func (resourceType ResourceType[T]) Path(subscription uuid.UUID, resourceGroup string, name string) (string, error) {
	if err := FirstError(
		RequireSubscription("subscription", subscription),
		RequireString("resourceGroupName", resourceGroup),
		RequireString("name", name),
	); err != nil {
		return "", err
	}
	return resourceuri.New(subscription).
		WithResourceGroup(resourceGroup).
		WithProvider(resourceType.Provider).
		WithType(resourceType.Type).
		WithName(name).
		Build()
}

func (resourceType ResourceType[T]) List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]T, error) {
	path, err := resourceType.CollectionPath(subscription, resourceGroup)
	if err != nil {
		return nil, err
	}

	values, response := GETWithContinuations[T](ctx, resourceType.Client, Request{URL: path, APIVersion: resourceType.APIVersion}, nil)
	if err := response.AsError(); err != nil {
		return nil, err
	}
	return values, nil
}

func (resourceType ResourceType[T]) Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, query map[string]string) (*T, error) {
	path, err := resourceType.Path(subscription, resourceGroup, name)
	if err != nil {
		return nil, err
	}

	value, err := Decode[T](resourceType.Client.GET(ctx, Request{URL: path, APIVersion: resourceType.APIVersion, Query: query}))
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (resourceType ResourceType[T]) CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, resource T) (*T, error) {
	path, err := resourceType.Path(subscription, resourceGroup, name)
	if err != nil {
		return nil, err
	}

	value, err := Decode[T](resourceType.Client.PUT(ctx, Request{
		URL:                  path,
		APIVersion:           resourceType.APIVersion,
		Body:                 resource,
		ExpectedSuccessCodes: Expect(http.StatusOK, http.StatusCreated, http.StatusAccepted),
	}))
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// Delete reports false when the resource did not exist.
func (resourceType ResourceType[T]) Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error) {
	path, err := resourceType.Path(subscription, resourceGroup, name)
	if err != nil {
		return false, err
	}

	return resourceType.Client.DELETE(ctx, Request{
		URL:                  path,
		APIVersion:           resourceType.APIVersion,
		ExpectedSuccessCodes: Expect(http.StatusOK, http.StatusAccepted, http.StatusNoContent, http.StatusNotFound),
	}).Found()
}

// Action POSTs to {resource}/{action}. Without expected codes, 200 and 202 are accepted.
func (resourceType ResourceType[T]) Action(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, action string, body any, expected ...int) (*Response, error) {
	path, err := resourceType.Path(subscription, resourceGroup, name)
	if err != nil {
		return nil, err
	}
	if len(expected) == 0 {
		expected = []int{http.StatusOK, http.StatusAccepted}
	}

	response := resourceType.Client.POST(ctx, Request{
		URL:                  path + "/" + action,
		APIVersion:           resourceType.APIVersion,
		Body:                 body,
		ExpectedSuccessCodes: Expect(expected...),
	})
	return response, response.AsError()
}
