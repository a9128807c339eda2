package appservice

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/restapi"
)

const (
	CertificateRegistrationProvider   = "Microsoft.CertificateRegistration"
	CertificateRegistrationAPIVersion = "2023-12-01"
)

type ICertificateOrdersClient interface {
	List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]CertificateOrder, error)
	Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*CertificateOrder, error)
	Create(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, order CertificateOrder) (*CertificateOrder, error)
	Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error)
	Renew(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, request RenewCertificateOrderRequest) error
	ResendEmail(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error
}

// CertificateOrdersClient orders App Service certificates.
type CertificateOrdersClient struct {
	Logger *logrus.Logger

	orders restapi.ResourceType[CertificateOrder]
}

func NewCertificateOrdersClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *CertificateOrdersClient {
	return &CertificateOrdersClient{
		Logger: restapi.LoggerOrDiscard(logger),
		orders: restapi.ResourceType[CertificateOrder]{
			Client:     client,
			Provider:   CertificateRegistrationProvider,
			Type:       "certificateOrders",
			APIVersion: restapi.ApplyOptions(CertificateRegistrationAPIVersion, options...).APIVersion,
		},
	}
}

func (orders *CertificateOrdersClient) APIVersion() string {
	return orders.orders.APIVersion
}

func (orders *CertificateOrdersClient) List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]CertificateOrder, error) {
	return orders.orders.List(ctx, subscription, resourceGroup)
}

func (orders *CertificateOrdersClient) Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (*CertificateOrder, error) {
	return orders.orders.Get(ctx, subscription, resourceGroup, name, nil)
}

func (orders *CertificateOrdersClient) Create(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, order CertificateOrder) (*CertificateOrder, error) {
	if err := restapi.RequireNotNil("properties", order.Properties); err != nil {
		return nil, err
	}
	if err := restapi.RequireString("distinguishedName", order.Properties.DistinguishedName); err != nil {
		return nil, err
	}
	if order.Location == "" {
		order.Location = "global"
	}

	orders.Logger.Infof("Ordering %s certificate %s for %s", order.Properties.ProductType, name, order.Properties.DistinguishedName)
	return orders.orders.CreateOrUpdate(ctx, subscription, resourceGroup, name, order)
}

func (orders *CertificateOrdersClient) Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) (bool, error) {
	orders.Logger.Infof("Deleting certificate order %s in %s", name, resourceGroup)
	return orders.orders.Delete(ctx, subscription, resourceGroup, name)
}

func (orders *CertificateOrdersClient) Renew(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string, request RenewCertificateOrderRequest) error {
	_, err := orders.orders.Action(ctx, subscription, resourceGroup, name, "renew", request, http.StatusOK, http.StatusNoContent)
	return err
}

// ResendEmail sends the domain verification mail again.
func (orders *CertificateOrdersClient) ResendEmail(ctx context.Context, subscription uuid.UUID, resourceGroup string, name string) error {
	_, err := orders.orders.Action(ctx, subscription, resourceGroup, name, "resendEmail", nil, http.StatusOK, http.StatusNoContent)
	return err
}
