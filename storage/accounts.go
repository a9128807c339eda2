package storage

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/resourceuri"
	"github.com/sujayvsarma/armclient/restapi"
)

const (
	ProviderName       = "Microsoft.Storage"
	AccountsAPIVersion = "2023-05-01"
)

type IStorageServicesClient interface {
	List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]StorageAccount, error)
	Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*StorageAccount, error)
	CheckNameAvailability(ctx context.Context, subscription uuid.UUID, name string) (*CheckNameAvailabilityResult, error)
	Create(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, account StorageAccount) (*StorageAccount, error)
	Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error)
	ListKeys(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) ([]AccountKey, error)
	RegenerateKey(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, keyName string) ([]AccountKey, error)
	ListSkus(ctx context.Context, subscription uuid.UUID) ([]Sku, error)
}

// StorageServicesClient manages storage accounts through Microsoft.Storage.
type StorageServicesClient struct {
	Logger *logrus.Logger

	accounts restapi.ResourceType[StorageAccount]
}

func NewStorageServicesClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *StorageServicesClient {
	return &StorageServicesClient{
		Logger: restapi.LoggerOrDiscard(logger),
		accounts: restapi.ResourceType[StorageAccount]{
			Client:     client,
			Provider:   ProviderName,
			Type:       "storageAccounts",
			APIVersion: restapi.ApplyOptions(AccountsAPIVersion, options...).APIVersion,
		},
	}
}

func (storage *StorageServicesClient) APIVersion() string {
	return storage.accounts.APIVersion
}

func (storage *StorageServicesClient) List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]StorageAccount, error) {
	return storage.accounts.List(ctx, subscription, resourceGroup)
}

func (storage *StorageServicesClient) Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*StorageAccount, error) {
	return storage.accounts.Get(ctx, subscription, resourceGroup, name, nil)
}

func (storage *StorageServicesClient) providerPath(subscription uuid.UUID) (string, error) {
	if err := restapi.RequireSubscription("subscription", subscription); err != nil {
		return "", err
	}
	return resourceuri.New(subscription).WithProvider(ProviderName).Build()
}

// CheckNameAvailability asks whether name is free. Account names are global across Azure.
func (storage *StorageServicesClient) CheckNameAvailability(ctx context.Context, subscription uuid.UUID, name string) (*CheckNameAvailabilityResult, error) {
	if err := restapi.RequireString("name", name); err != nil {
		return nil, err
	}
	path, err := storage.providerPath(subscription)
	if err != nil {
		return nil, err
	}

	result, err := restapi.Decode[CheckNameAvailabilityResult](storage.accounts.Client.POST(ctx, restapi.Request{
		URL:        path + "/checkNameAvailability",
		APIVersion: storage.accounts.APIVersion,
		Body:       CheckNameAvailabilityRequest{Name: name, Type: ProviderName + "/storageAccounts"},
	}))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (storage *StorageServicesClient) Create(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, account StorageAccount) (*StorageAccount, error) {
	if err := restapi.FirstError(
		restapi.RequireString("location", account.Location),
		restapi.RequireNotNil("sku", account.Sku),
	); err != nil {
		return nil, err
	}

	storage.Logger.Infof("Creating storage account %s in %s", name, resourceGroup)
	return storage.accounts.CreateOrUpdate(ctx, subscription, resourceGroup, name, account)
}

func (storage *StorageServicesClient) Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error) {
	storage.Logger.Infof("Deleting storage account %s in %s", name, resourceGroup)
	return storage.accounts.Delete(ctx, subscription, resourceGroup, name)
}

func (storage *StorageServicesClient) ListKeys(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) ([]AccountKey, error) {
	response, err := storage.accounts.Action(ctx, subscription, resourceGroup, name, "listKeys", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	keys, err := restapi.Decode[accountKeys](response)
	return keys.Keys, err
}

// RegenerateKey replaces key1 or key2 and returns the new key set.
func (storage *StorageServicesClient) RegenerateKey(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, keyName string) ([]AccountKey, error) {
	if err := restapi.RequireString("keyName", keyName); err != nil {
		return nil, err
	}

	storage.Logger.Warnf("Regenerating %s of storage account %s", keyName, name)
	response, err := storage.accounts.Action(ctx, subscription, resourceGroup, name, "regenerateKey", regenerateKeyRequest{KeyName: keyName}, http.StatusOK)
	if err != nil {
		return nil, err
	}
	keys, err := restapi.Decode[accountKeys](response)
	return keys.Keys, err
}

func (storage *StorageServicesClient) ListSkus(ctx context.Context, subscription uuid.UUID) ([]Sku, error) {
	path, err := storage.providerPath(subscription)
	if err != nil {
		return nil, err
	}

	values, response := restapi.GETWithContinuations[Sku](ctx, storage.accounts.Client, restapi.Request{
		URL:        path + "/skus",
		APIVersion: storage.accounts.APIVersion,
	}, nil)
	if err := response.AsError(); err != nil {
		return nil, err
	}
	return values, nil
}
