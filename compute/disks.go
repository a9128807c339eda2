package compute

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/restapi"
)

const DisksAPIVersion = "2023-04-02"

type IDisksClient interface {
	List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]Disk, error)
	Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*Disk, error)
	CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, disk Disk) (*Disk, error)
	Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error)
	GrantAccess(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, access AccessLevel, durationInSeconds int) (*AccessUri, error)
	RevokeAccess(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error
}

// DisksClient manages managed disks.
type DisksClient struct {
	Logger *logrus.Logger

	resources restapi.ResourceType[Disk]
}

func NewDisksClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *DisksClient {
	return &DisksClient{
		Logger: restapi.LoggerOrDiscard(logger),
		resources: restapi.ResourceType[Disk]{
			Client:     client,
			Provider:   ProviderName,
			Type:       "disks",
			APIVersion: restapi.ApplyOptions(DisksAPIVersion, options...).APIVersion,
		},
	}
}

func (disks *DisksClient) APIVersion() string {
	return disks.resources.APIVersion
}

func (disks *DisksClient) List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]Disk, error) {
	return disks.resources.List(ctx, subscription, resourceGroup)
}

func (disks *DisksClient) Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*Disk, error) {
	return disks.resources.Get(ctx, subscription, resourceGroup, name, nil)
}

func (disks *DisksClient) CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, disk Disk) (*Disk, error) {
	if err := restapi.FirstError(
		restapi.RequireString("location", disk.Location),
		restapi.RequireNotNil("properties", disk.Properties),
	); err != nil {
		return nil, err
	}
	return disks.resources.CreateOrUpdate(ctx, subscription, resourceGroup, name, disk)
}

func (disks *DisksClient) Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error) {
	return disks.resources.Delete(ctx, subscription, resourceGroup, name)
}

// GrantAccess issues a SAS for the disk. ARM may answer 202 and finish asynchronously, in which
// case the returned AccessUri is empty.
func (disks *DisksClient) GrantAccess(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, access AccessLevel, durationInSeconds int) (*AccessUri, error) {
	if access == AccessLevelNone {
		return nil, &restapi.ArgumentError{Name: "access", Reason: "must be Read or Write"}
	}
	if durationInSeconds <= 0 {
		return nil, &restapi.ArgumentError{Name: "durationInSeconds", Reason: "must be positive"}
	}

	response, err := disks.resources.Action(ctx, subscription, resourceGroup, name, "beginGetAccess", GrantAccessData{
		Access:            access,
		DurationInSeconds: durationInSeconds,
	})
	if err != nil {
		return nil, err
	}
	uri, err := restapi.Decode[AccessUri](response)
	if err != nil {
		return nil, err
	}
	return &uri, nil
}

func (disks *DisksClient) RevokeAccess(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error {
	_, err := disks.resources.Action(ctx, subscription, resourceGroup, name, "endGetAccess", nil, http.StatusOK, http.StatusAccepted)
	return err
}
