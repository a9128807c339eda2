package compute

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/restapi"
)

type IAvailabilitySetsClient interface {
	List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]AvailabilitySet, error)
	Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*AvailabilitySet, error)
	CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, set AvailabilitySet) (*AvailabilitySet, error)
	Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error)
}

type AvailabilitySetsClient struct {
	Logger *logrus.Logger

	resources restapi.ResourceType[AvailabilitySet]
}

func NewAvailabilitySetsClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *AvailabilitySetsClient {
	return &AvailabilitySetsClient{
		Logger: restapi.LoggerOrDiscard(logger),
		resources: restapi.ResourceType[AvailabilitySet]{
			Client:     client,
			Provider:   ProviderName,
			Type:       "availabilitySets",
			APIVersion: restapi.ApplyOptions(VirtualMachinesAPIVersion, options...).APIVersion,
		},
	}
}

func (sets *AvailabilitySetsClient) APIVersion() string {
	return sets.resources.APIVersion
}

func (sets *AvailabilitySetsClient) List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]AvailabilitySet, error) {
	return sets.resources.List(ctx, subscription, resourceGroup)
}

func (sets *AvailabilitySetsClient) Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*AvailabilitySet, error) {
	return sets.resources.Get(ctx, subscription, resourceGroup, name, nil)
}

func (sets *AvailabilitySetsClient) CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, set AvailabilitySet) (*AvailabilitySet, error) {
	if err := restapi.RequireString("location", set.Location); err != nil {
		return nil, err
	}
	return sets.resources.CreateOrUpdate(ctx, subscription, resourceGroup, name, set)
}

func (sets *AvailabilitySetsClient) Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error) {
	return sets.resources.Delete(ctx, subscription, resourceGroup, name)
}
