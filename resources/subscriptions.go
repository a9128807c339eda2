package resources

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/resourceuri"
	"github.com/sujayvsarma/armclient/restapi"
)

const SubscriptionsAPIVersion = "2022-12-01"

type ISubscriptionClient interface {
	List(ctx context.Context) ([]Subscription, error)
	Get(ctx context.Context, subscription uuid.UUID) (*Subscription, error)
	ListLocations(ctx context.Context, subscription uuid.UUID) ([]Location, error)
}

type SubscriptionClient struct {
	Client *restapi.Client
	Logger *logrus.Logger

	apiVersion string
}

func NewSubscriptionClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *SubscriptionClient {
	return &SubscriptionClient{
		Client:     client,
		Logger:     restapi.LoggerOrDiscard(logger),
		apiVersion: restapi.ApplyOptions(SubscriptionsAPIVersion, options...).APIVersion,
	}
}

func (subscriptions *SubscriptionClient) APIVersion() string {
	return subscriptions.apiVersion
}

// List returns every subscription the caller's token can see.
func (subscriptions *SubscriptionClient) List(ctx context.Context) ([]Subscription, error) {
	values, response := restapi.GETWithContinuations[Subscription](ctx, subscriptions.Client, restapi.Request{
		URL:        "/subscriptions",
		APIVersion: subscriptions.apiVersion,
	}, nil)
	if err := response.AsError(); err != nil {
		return nil, err
	}
	subscriptions.Logger.Debugf("Found %d subscription(s)", len(values))
	return values, nil
}

func (subscriptions *SubscriptionClient) Get(ctx context.Context, subscription uuid.UUID) (*Subscription, error) {
	if err := restapi.RequireSubscription("subscription", subscription); err != nil {
		return nil, err
	}
	path, err := resourceuri.New(subscription).Build()
	if err != nil {
		return nil, err
	}

	value, err := restapi.Decode[Subscription](subscriptions.Client.GET(ctx, restapi.Request{URL: path, APIVersion: subscriptions.apiVersion}))
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (subscriptions *SubscriptionClient) ListLocations(ctx context.Context, subscription uuid.UUID) ([]Location, error) {
	if err := restapi.RequireSubscription("subscription", subscription); err != nil {
		return nil, err
	}
	path, err := resourceuri.New(subscription).Build()
	if err != nil {
		return nil, err
	}

	values, response := restapi.GETWithContinuations[Location](ctx, subscriptions.Client, restapi.Request{
		URL:        path + "/locations",
		APIVersion: subscriptions.apiVersion,
	}, nil)
	if err := response.AsError(); err != nil {
		return nil, err
	}
	return values, nil
}
