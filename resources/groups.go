package resources

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/resourceuri"
	"github.com/sujayvsarma/armclient/restapi"
	"github.com/sujayvsarma/armclient/types"
)

const ResourceGroupsAPIVersion = "2021-04-01"

type IResourceGroupClient interface {
	List(ctx context.Context, subscription uuid.UUID) ([]ResourceGroup, error)
	Get(ctx context.Context, subscription uuid.UUID, name string) (*ResourceGroup, error)
	Exists(ctx context.Context, subscription uuid.UUID, name string) (bool, error)
	CreateOrUpdate(ctx context.Context, subscription uuid.UUID, name string, group ResourceGroup) (*ResourceGroup, error)
	UpdateTags(ctx context.Context, subscription uuid.UUID, name string, tags map[string]string) (*ResourceGroup, error)
	Delete(ctx context.Context, subscription uuid.UUID, name string) (bool, error)
	ExportTemplate(ctx context.Context, subscription uuid.UUID, name string, resourceIds []string) (*ExportTemplateResult, error)
	ListResources(ctx context.Context, subscription uuid.UUID, name string) ([]types.GenericResource, error)
}

type ResourceGroupClient struct {
	Client *restapi.Client
	Logger *logrus.Logger

	apiVersion string
}

func NewResourceGroupClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *ResourceGroupClient {
	return &ResourceGroupClient{
		Client:     client,
		Logger:     restapi.LoggerOrDiscard(logger),
		apiVersion: restapi.ApplyOptions(ResourceGroupsAPIVersion, options...).APIVersion,
	}
}

func (groups *ResourceGroupClient) APIVersion() string {
	return groups.apiVersion
}

func groupPath(subscription uuid.UUID, name string) (string, error) {
	if err := restapi.FirstError(
		restapi.RequireSubscription("subscription", subscription),
		restapi.RequireString("resourceGroupName", name),
	); err != nil {
		return "", err
	}
	return resourceuri.New(subscription).WithResourceGroup(name).Build()
}

func (groups *ResourceGroupClient) List(ctx context.Context, subscription uuid.UUID) ([]ResourceGroup, error) {
	if err := restapi.RequireSubscription("subscription", subscription); err != nil {
		return nil, err
	}
	path, err := resourceuri.New(subscription).Build()
	if err != nil {
		return nil, err
	}

	groups.Logger.Debugf("Listing resource groups in subscription %s", subscription)
	values, response := restapi.GETWithContinuations[ResourceGroup](ctx, groups.Client, restapi.Request{
		URL:        path + "/resourcegroups",
		APIVersion: groups.apiVersion,
	}, nil)
	if err := response.AsError(); err != nil {
		return nil, err
	}
	return values, nil
}

func (groups *ResourceGroupClient) Get(ctx context.Context, subscription uuid.UUID, name string) (*ResourceGroup, error) {
	path, err := groupPath(subscription, name)
	if err != nil {
		return nil, err
	}

	group, err := restapi.Decode[ResourceGroup](groups.Client.GET(ctx, restapi.Request{URL: path, APIVersion: groups.apiVersion}))
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// Exists uses HEAD, which answers 204 for an existing group and 404 otherwise.
func (groups *ResourceGroupClient) Exists(ctx context.Context, subscription uuid.UUID, name string) (bool, error) {
	path, err := groupPath(subscription, name)
	if err != nil {
		return false, err
	}

	return groups.Client.HEAD(ctx, restapi.Request{
		URL:                  path,
		APIVersion:           groups.apiVersion,
		ExpectedSuccessCodes: restapi.Expect(http.StatusNoContent, http.StatusNotFound),
	}).Found()
}

func (groups *ResourceGroupClient) CreateOrUpdate(ctx context.Context, subscription uuid.UUID, name string, group ResourceGroup) (*ResourceGroup, error) {
	path, err := groupPath(subscription, name)
	if err != nil {
		return nil, err
	}
	if err := restapi.RequireString("location", group.Location); err != nil {
		return nil, err
	}

	groups.Logger.Debugf("Creating or updating resource group %s in %s", name, group.Location)
	created, err := restapi.Decode[ResourceGroup](groups.Client.PUT(ctx, restapi.Request{
		URL:                  path,
		APIVersion:           groups.apiVersion,
		Body:                 group,
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusCreated),
	}))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTags replaces the tags of the group. Other properties are left untouched.
func (groups *ResourceGroupClient) UpdateTags(ctx context.Context, subscription uuid.UUID, name string, tags map[string]string) (*ResourceGroup, error) {
	path, err := groupPath(subscription, name)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = map[string]string{}
	}

	updated, err := restapi.Decode[ResourceGroup](groups.Client.PATCH(ctx, restapi.Request{
		URL:        path,
		APIVersion: groups.apiVersion,
		Body:       TagsPatch{Tags: tags},
	}))
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete starts deleting the group and everything in it. It returns false when the group does not exist.
func (groups *ResourceGroupClient) Delete(ctx context.Context, subscription uuid.UUID, name string) (bool, error) {
	path, err := groupPath(subscription, name)
	if err != nil {
		return false, err
	}

	groups.Logger.Infof("Deleting resource group %s", name)
	return groups.Client.DELETE(ctx, restapi.Request{
		URL:                  path,
		APIVersion:           groups.apiVersion,
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusAccepted, http.StatusNoContent, http.StatusNotFound),
	}).Found()
}

// ExportTemplate captures the listed resources (or all of them when resourceIds is empty) as an ARM template.
// A 202 answer means the export continues asynchronously and the result is empty.
func (groups *ResourceGroupClient) ExportTemplate(ctx context.Context, subscription uuid.UUID, name string, resourceIds []string) (*ExportTemplateResult, error) {
	path, err := groupPath(subscription, name)
	if err != nil {
		return nil, err
	}
	if len(resourceIds) == 0 {
		resourceIds = []string{"*"}
	}

	result, err := restapi.Decode[ExportTemplateResult](groups.Client.POST(ctx, restapi.Request{
		URL:                  path + "/exportTemplate",
		APIVersion:           groups.apiVersion,
		Body:                 ExportTemplateRequest{Resources: resourceIds, Options: "IncludeParameterDefaultValue"},
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusAccepted),
	}))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (groups *ResourceGroupClient) ListResources(ctx context.Context, subscription uuid.UUID, name string) ([]types.GenericResource, error) {
	path, err := groupPath(subscription, name)
	if err != nil {
		return nil, err
	}

	values, response := restapi.GETWithContinuations[types.GenericResource](ctx, groups.Client, restapi.Request{
		URL:        path + "/resources",
		APIVersion: groups.apiVersion,
	}, nil)
	if err := response.AsError(); err != nil {
		return nil, err
	}
	return values, nil
}
