package resources

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/resourceuri"
	"github.com/sujayvsarma/armclient/restapi"
)

const TagsAPIVersion = "2021-04-01"

type ITagClient interface {
	List(ctx context.Context, subscription uuid.UUID) ([]TagDetails, error)
	CreateOrUpdate(ctx context.Context, subscription uuid.UUID, tagName string) (*TagDetails, error)
	CreateOrUpdateValue(ctx context.Context, subscription uuid.UUID, tagName string, tagValue string) (*TagValue, error)
	Delete(ctx context.Context, subscription uuid.UUID, tagName string) (bool, error)
	DeleteValue(ctx context.Context, subscription uuid.UUID, tagName string, tagValue string) (bool, error)
}

// TagClient manages the predefined tag names of a subscription.
type TagClient struct {
	Client *restapi.Client
	Logger *logrus.Logger

	apiVersion string
}

func NewTagClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *TagClient {
	return &TagClient{
		Client:     client,
		Logger:     restapi.LoggerOrDiscard(logger),
		apiVersion: restapi.ApplyOptions(TagsAPIVersion, options...).APIVersion,
	}
}

func (tags *TagClient) APIVersion() string {
	return tags.apiVersion
}

func tagNamesPath(subscription uuid.UUID) (string, error) {
	if err := restapi.RequireSubscription("subscription", subscription); err != nil {
		return "", err
	}
	path, err := resourceuri.New(subscription).Build()
	if err != nil {
		return "", err
	}
	return path + "/tagNames", nil
}

func tagNamePath(subscription uuid.UUID, tagName string) (string, error) {
	if err := restapi.RequireString("tagName", tagName); err != nil {
		return "", err
	}
	path, err := tagNamesPath(subscription)
	if err != nil {
		return "", err
	}
	return path + "/" + url.PathEscape(tagName), nil
}

func tagValuePath(subscription uuid.UUID, tagName string, tagValue string) (string, error) {
	if err := restapi.RequireString("tagValue", tagValue); err != nil {
		return "", err
	}
	path, err := tagNamePath(subscription, tagName)
	if err != nil {
		return "", err
	}
	return path + "/tagValues/" + url.PathEscape(tagValue), nil
}

func (tags *TagClient) List(ctx context.Context, subscription uuid.UUID) ([]TagDetails, error) {
	path, err := tagNamesPath(subscription)
	if err != nil {
		return nil, err
	}

	values, response := restapi.GETWithContinuations[TagDetails](ctx, tags.Client, restapi.Request{
		URL:        path,
		APIVersion: tags.apiVersion,
	}, nil)
	if err := response.AsError(); err != nil {
		return nil, err
	}
	return values, nil
}

func (tags *TagClient) CreateOrUpdate(ctx context.Context, subscription uuid.UUID, tagName string) (*TagDetails, error) {
	path, err := tagNamePath(subscription, tagName)
	if err != nil {
		return nil, err
	}

	details, err := restapi.Decode[TagDetails](tags.Client.PUT(ctx, restapi.Request{
		URL:                  path,
		APIVersion:           tags.apiVersion,
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusCreated),
	}))
	if err != nil {
		return nil, err
	}
	return &details, nil
}

func (tags *TagClient) CreateOrUpdateValue(ctx context.Context, subscription uuid.UUID, tagName string, tagValue string) (*TagValue, error) {
	path, err := tagValuePath(subscription, tagName, tagValue)
	if err != nil {
		return nil, err
	}

	value, err := restapi.Decode[TagValue](tags.Client.PUT(ctx, restapi.Request{
		URL:                  path,
		APIVersion:           tags.apiVersion,
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusCreated),
	}))
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// Delete removes a tag name. ARM refuses while any resource still carries the tag.
func (tags *TagClient) Delete(ctx context.Context, subscription uuid.UUID, tagName string) (bool, error) {
	path, err := tagNamePath(subscription, tagName)
	if err != nil {
		return false, err
	}

	return tags.Client.DELETE(ctx, restapi.Request{
		URL:                  path,
		APIVersion:           tags.apiVersion,
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusNoContent, http.StatusNotFound),
	}).Found()
}

func (tags *TagClient) DeleteValue(ctx context.Context, subscription uuid.UUID, tagName string, tagValue string) (bool, error) {
	path, err := tagValuePath(subscription, tagName, tagValue)
	if err != nil {
		return false, err
	}

	return tags.Client.DELETE(ctx, restapi.Request{
		URL:                  path,
		APIVersion:           tags.apiVersion,
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusNoContent, http.StatusNotFound),
	}).Found()
}
