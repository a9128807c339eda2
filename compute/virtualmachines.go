package compute

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/restapi"
)

const (
	ProviderName              = "Microsoft.Compute"
	VirtualMachinesAPIVersion = "2024-03-01"
)

type IVirtualMachinesClient interface {
	List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]VirtualMachine, error)
	Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, withInstanceView bool) (*VirtualMachine, error)
	CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, machine VirtualMachine) (*VirtualMachine, error)
	Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error)
	Start(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error
	PowerOff(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, skipShutdown bool) error
	Restart(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error
	Deallocate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error
	InstanceView(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*VirtualMachineInstanceView, error)
}

type VirtualMachinesClient struct {
	Logger *logrus.Logger

	resources restapi.ResourceType[VirtualMachine]
}

func NewVirtualMachinesClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *VirtualMachinesClient {
	return &VirtualMachinesClient{
		Logger: restapi.LoggerOrDiscard(logger),
		resources: restapi.ResourceType[VirtualMachine]{
			Client:     client,
			Provider:   ProviderName,
			Type:       "virtualMachines",
			APIVersion: restapi.ApplyOptions(VirtualMachinesAPIVersion, options...).APIVersion,
		},
	}
}

func (machines *VirtualMachinesClient) APIVersion() string {
	return machines.resources.APIVersion
}

// List returns the machines of resourceGroup, or of the whole subscription when resourceGroup is empty.
func (machines *VirtualMachinesClient) List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]VirtualMachine, error) {
	return machines.resources.List(ctx, subscription, resourceGroup)
}

func (machines *VirtualMachinesClient) Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, withInstanceView bool) (*VirtualMachine, error) {
	var query map[string]string
	if withInstanceView {
		query = map[string]string{"$expand": "instanceView"}
	}
	return machines.resources.Get(ctx, subscription, resourceGroup, name, query)
}

func (machines *VirtualMachinesClient) CreateOrUpdate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, machine VirtualMachine) (*VirtualMachine, error) {
	if err := restapi.RequireString("location", machine.Location); err != nil {
		return nil, err
	}
	machines.Logger.Infof("Creating or updating virtual machine %s in %s", name, resourceGroup)
	return machines.resources.CreateOrUpdate(ctx, subscription, resourceGroup, name, machine)
}

func (machines *VirtualMachinesClient) Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error) {
	machines.Logger.Infof("Deleting virtual machine %s in %s", name, resourceGroup)
	return machines.resources.Delete(ctx, subscription, resourceGroup, name)
}

func (machines *VirtualMachinesClient) Start(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error {
	_, err := machines.resources.Action(ctx, subscription, resourceGroup, name, "start", nil)
	return err
}

// PowerOff stops the machine but keeps it allocated, so compute is still billed.
func (machines *VirtualMachinesClient) PowerOff(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, skipShutdown bool) error {
	path, err := machines.resources.Path(subscription, resourceGroup, name)
	if err != nil {
		return err
	}
	return machines.resources.Client.POST(ctx, restapi.Request{
		URL:                  path + "/powerOff",
		APIVersion:           machines.resources.APIVersion,
		Query:                map[string]string{"skipShutdown": strconv.FormatBool(skipShutdown)},
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusAccepted),
	}).AsError()
}

func (machines *VirtualMachinesClient) Restart(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error {
	_, err := machines.resources.Action(ctx, subscription, resourceGroup, name, "restart", nil)
	return err
}

func (machines *VirtualMachinesClient) Deallocate(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error {
	_, err := machines.resources.Action(ctx, subscription, resourceGroup, name, "deallocate", nil)
	return err
}

func (machines *VirtualMachinesClient) InstanceView(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*VirtualMachineInstanceView, error) {
	path, err := machines.resources.Path(subscription, resourceGroup, name)
	if err != nil {
		return nil, err
	}

	view, err := restapi.Decode[VirtualMachineInstanceView](machines.resources.Client.GET(ctx, restapi.Request{
		URL:        path + "/instanceView",
		APIVersion: machines.resources.APIVersion,
	}))
	if err != nil {
		return nil, err
	}
	return &view, nil
}
