package resources

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/resourceuri"
	"github.com/sujayvsarma/armclient/restapi"
)

const DeploymentsAPIVersion = "2021-04-01"

type IDeploymentClient interface {
	List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]Deployment, error)
	Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*Deployment, error)
	Validate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, deployment Deployment) (*DeploymentValidateResult, error)
	CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, deployment Deployment) (*Deployment, error)
	Cancel(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error
	Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error)
	ExportTemplate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*ExportTemplateResult, error)
}

// DeploymentClient manages template deployments scoped to a resource group.
type DeploymentClient struct {
	Client *restapi.Client
	Logger *logrus.Logger

	apiVersion string
}

func NewDeploymentClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *DeploymentClient {
	return &DeploymentClient{
		Client:     client,
		Logger:     restapi.LoggerOrDiscard(logger),
		apiVersion: restapi.ApplyOptions(DeploymentsAPIVersion, options...).APIVersion,
	}
}

func (deployments *DeploymentClient) APIVersion() string {
	return deployments.apiVersion
}

func deploymentPath(subscription uuid.UUID, resourceGroup string, name string) (string, error) {
	if err := restapi.FirstError(
		restapi.RequireSubscription("subscription", subscription),
		restapi.RequireString("resourceGroupName", resourceGroup),
	); err != nil {
		return "", err
	}
	return resourceuri.New(subscription).
		WithResourceGroup(resourceGroup).
		WithProvider("Microsoft.Resources").
		WithType("deployments").
		WithName(name).
		Build()
}

func (deployments *DeploymentClient) namedPath(subscription uuid.UUID, resourceGroup string, name string) (string, error) {
	if err := restapi.RequireString("deploymentName", name); err != nil {
		return "", err
	}
	return deploymentPath(subscription, resourceGroup, name)
}

func (deployments *DeploymentClient) List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]Deployment, error) {
	path, err := deploymentPath(subscription, resourceGroup, "")
	if err != nil {
		return nil, err
	}

	values, response := restapi.GETWithContinuations[Deployment](ctx, deployments.Client, restapi.Request{
		URL:        path,
		APIVersion: deployments.apiVersion,
	}, nil)
	if err := response.AsError(); err != nil {
		return nil, err
	}
	return values, nil
}

func (deployments *DeploymentClient) Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*Deployment, error) {
	path, err := deployments.namedPath(subscription, resourceGroup, name)
	if err != nil {
		return nil, err
	}

	deployment, err := restapi.Decode[Deployment](deployments.Client.GET(ctx, restapi.Request{URL: path, APIVersion: deployments.apiVersion}))
	if err != nil {
		return nil, err
	}
	return &deployment, nil
}

// Validate asks ARM whether the deployment would be accepted. A rejected template is not an
// error: ARM answers 400 and the reason is in the result's Error field.
func (deployments *DeploymentClient) Validate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, deployment Deployment) (*DeploymentValidateResult, error) {
	path, err := deployments.namedPath(subscription, resourceGroup, name)
	if err != nil {
		return nil, err
	}
	if err := restapi.RequireNotNil("properties", deployment.Properties); err != nil {
		return nil, err
	}

	result, err := restapi.Decode[DeploymentValidateResult](deployments.Client.POST(ctx, restapi.Request{
		URL:                  path + "/validate",
		APIVersion:           deployments.apiVersion,
		Body:                 deployment,
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusAccepted, http.StatusBadRequest),
	}))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (deployments *DeploymentClient) CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, deployment Deployment) (*Deployment, error) {
	path, err := deployments.namedPath(subscription, resourceGroup, name)
	if err != nil {
		return nil, err
	}
	if err := restapi.RequireNotNil("properties", deployment.Properties); err != nil {
		return nil, err
	}

	deployments.Logger.Infof("Starting %s deployment %s in %s", deployment.Properties.Mode, name, resourceGroup)
	created, err := restapi.Decode[Deployment](deployments.Client.PUT(ctx, restapi.Request{
		URL:                  path,
		APIVersion:           deployments.apiVersion,
		Body:                 deployment,
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusCreated),
	}))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Cancel stops a deployment that is still Accepted or Running.
func (deployments *DeploymentClient) Cancel(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error {
	path, err := deployments.namedPath(subscription, resourceGroup, name)
	if err != nil {
		return err
	}

	return deployments.Client.POST(ctx, restapi.Request{
		URL:                  path + "/cancel",
		APIVersion:           deployments.apiVersion,
		ExpectedSuccessCodes: restapi.Expect(http.StatusNoContent),
	}).AsError()
}

// Delete removes the deployment record. Resources it created are kept.
func (deployments *DeploymentClient) Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error) {
	path, err := deployments.namedPath(subscription, resourceGroup, name)
	if err != nil {
		return false, err
	}

	return deployments.Client.DELETE(ctx, restapi.Request{
		URL:                  path,
		APIVersion:           deployments.apiVersion,
		ExpectedSuccessCodes: restapi.Expect(http.StatusAccepted, http.StatusNoContent, http.StatusNotFound),
	}).Found()
}

func (deployments *DeploymentClient) ExportTemplate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*ExportTemplateResult, error) {
	path, err := deployments.namedPath(subscription, resourceGroup, name)
	if err != nil {
		return nil, err
	}

	result, err := restapi.Decode[ExportTemplateResult](deployments.Client.POST(ctx, restapi.Request{
		URL:        path + "/exportTemplate",
		APIVersion: deployments.apiVersion,
	}))
	if err != nil {
		return nil, err
	}
	return &result, nil
}
