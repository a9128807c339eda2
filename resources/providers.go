package resources

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/resourceuri"
	"github.com/sujayvsarma/armclient/restapi"
)

const ProvidersAPIVersion = "2021-04-01"

type IProviderClient interface {
	List(ctx context.Context, subscription uuid.UUID) ([]Provider, error)
	Get(ctx context.Context, subscription uuid.UUID, namespace string) (*Provider, error)
	Register(ctx context.Context, subscription uuid.UUID, namespace string) (*Provider, error)
	Unregister(ctx context.Context, subscription uuid.UUID, namespace string) (*Provider, error)
}

type ProviderClient struct {
	Client *restapi.Client
	Logger *logrus.Logger

	apiVersion string
}

func NewProviderClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *ProviderClient {
	return &ProviderClient{
		Client:     client,
		Logger:     restapi.LoggerOrDiscard(logger),
		apiVersion: restapi.ApplyOptions(ProvidersAPIVersion, options...).APIVersion,
	}
}

func (providers *ProviderClient) APIVersion() string {
	return providers.apiVersion
}

func providerPath(subscription uuid.UUID, namespace string) (string, error) {
	if err := restapi.FirstError(
		restapi.RequireSubscription("subscription", subscription),
		restapi.RequireString("namespace", namespace),
	); err != nil {
		return "", err
	}
	return resourceuri.New(subscription).WithProvider(namespace).Build()
}

func (providers *ProviderClient) List(ctx context.Context, subscription uuid.UUID) ([]Provider, error) {
	if err := restapi.RequireSubscription("subscription", subscription); err != nil {
		return nil, err
	}
	path, err := resourceuri.New(subscription).Build()
	if err != nil {
		return nil, err
	}

	values, response := restapi.GETWithContinuations[Provider](ctx, providers.Client, restapi.Request{
		URL:        path + "/providers",
		APIVersion: providers.apiVersion,
	}, nil)
	if err := response.AsError(); err != nil {
		return nil, err
	}
	return values, nil
}

func (providers *ProviderClient) Get(ctx context.Context, subscription uuid.UUID, namespace string) (*Provider, error) {
	path, err := providerPath(subscription, namespace)
	if err != nil {
		return nil, err
	}

	provider, err := restapi.Decode[Provider](providers.Client.GET(ctx, restapi.Request{URL: path, APIVersion: providers.apiVersion}))
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

func (providers *ProviderClient) Register(ctx context.Context, subscription uuid.UUID, namespace string) (*Provider, error) {
	return providers.action(ctx, subscription, namespace, "register")
}

func (providers *ProviderClient) Unregister(ctx context.Context, subscription uuid.UUID, namespace string) (*Provider, error) {
	return providers.action(ctx, subscription, namespace, "unregister")
}

func (providers *ProviderClient) action(ctx context.Context, subscription uuid.UUID, namespace string, action string) (*Provider, error) {
	path, err := providerPath(subscription, namespace)
	if err != nil {
		return nil, err
	}

	providers.Logger.Infof("Calling %s on resource provider %s", action, namespace)
	provider, err := restapi.Decode[Provider](providers.Client.POST(ctx, restapi.Request{
		URL:        path + "/" + action,
		APIVersion: providers.apiVersion,
	}))
	if err != nil {
		return nil, err
	}
	return &provider, nil
}

func equalFold(a string, b string) bool {
	return strings.EqualFold(a, b)
}

func isPreview(version string) bool {
	return strings.Contains(strings.ToLower(version), "preview")
}
