package appservice

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/restapi"
)

const (
	WebProvider   = "Microsoft.Web"
	WebAPIVersion = "2023-12-01"
)

type IServerFarmsClient interface {
	List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]ServerFarm, error)
	Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*ServerFarm, error)
	CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, farm ServerFarm) (*ServerFarm, error)
	Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error)
}

// ServerFarmsClient manages App Service plans.
type ServerFarmsClient struct {
	Logger *logrus.Logger

	farms restapi.ResourceType[ServerFarm]
}

func NewServerFarmsClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *ServerFarmsClient {
	return &ServerFarmsClient{
		Logger: restapi.LoggerOrDiscard(logger),
		farms: restapi.ResourceType[ServerFarm]{
			Client:     client,
			Provider:   WebProvider,
			Type:       "serverfarms",
			APIVersion: restapi.ApplyOptions(WebAPIVersion, options...).APIVersion,
		},
	}
}

func (farms *ServerFarmsClient) APIVersion() string {
	return farms.farms.APIVersion
}

func (farms *ServerFarmsClient) List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]ServerFarm, error) {
	return farms.farms.List(ctx, subscription, resourceGroup)
}

func (farms *ServerFarmsClient) Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*ServerFarm, error) {
	return farms.farms.Get(ctx, subscription, resourceGroup, name, nil)
}

func (farms *ServerFarmsClient) CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, farm ServerFarm) (*ServerFarm, error) {
	if err := restapi.FirstError(
		restapi.RequireString("location", farm.Location),
		restapi.RequireNotNil("sku", farm.Sku),
	); err != nil {
		return nil, err
	}

	farms.Logger.Infof("Creating App Service plan %s (%s) in %s", name, farm.Sku.Name, resourceGroup)
	return farms.farms.CreateOrUpdate(ctx, subscription, resourceGroup, name, farm)
}

func (farms *ServerFarmsClient) Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error) {
	farms.Logger.Infof("Deleting App Service plan %s in %s", name, resourceGroup)
	return farms.farms.Delete(ctx, subscription, resourceGroup, name)
}

type ISitesClient interface {
	List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]Site, error)
	Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*Site, error)
	CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, site Site) (*Site, error)
	Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error)
	Start(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error
	Stop(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error
	Restart(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error
}

// SitesClient manages web apps.
type SitesClient struct {
	Logger *logrus.Logger

	sites restapi.ResourceType[Site]
}

func NewSitesClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *SitesClient {
	return &SitesClient{
		Logger: restapi.LoggerOrDiscard(logger),
		sites: restapi.ResourceType[Site]{
			Client:     client,
			Provider:   WebProvider,
			Type:       "sites",
			APIVersion: restapi.ApplyOptions(WebAPIVersion, options...).APIVersion,
		},
	}
}

func (sites *SitesClient) APIVersion() string {
	return sites.sites.APIVersion
}

func (sites *SitesClient) List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]Site, error) {
	return sites.sites.List(ctx, subscription, resourceGroup)
}

func (sites *SitesClient) Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*Site, error) {
	return sites.sites.Get(ctx, subscription, resourceGroup, name, nil)
}

// CreateOrUpdate requires the plan the site runs on.
func (sites *SitesClient) CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, site Site) (*Site, error) {
	if err := restapi.FirstError(
		restapi.RequireString("location", site.Location),
		restapi.RequireNotNil("properties", site.Properties),
	); err != nil {
		return nil, err
	}
	if err := restapi.RequireString("serverFarmId", site.Properties.ServerFarmId); err != nil {
		return nil, err
	}

	sites.Logger.Infof("Creating site %s in %s", name, resourceGroup)
	return sites.sites.CreateOrUpdate(ctx, subscription, resourceGroup, name, site)
}

func (sites *SitesClient) Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error) {
	sites.Logger.Infof("Deleting site %s in %s", name, resourceGroup)
	return sites.sites.Delete(ctx, subscription, resourceGroup, name)
}

func (sites *SitesClient) Start(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error {
	return sites.power(ctx, subscription, resourceGroup, name, "start")
}

func (sites *SitesClient) Stop(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error {
	return sites.power(ctx, subscription, resourceGroup, name, "stop")
}

func (sites *SitesClient) Restart(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error {
	return sites.power(ctx, subscription, resourceGroup, name, "restart")
}

func (sites *SitesClient) power(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, action string) error {
	sites.Logger.Debugf("%s site %s", action, name)
	_, err := sites.sites.Action(ctx, subscription, resourceGroup, name, action, nil, http.StatusOK, http.StatusNoContent)
	return err
}
