package appservice

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sujayvsarma/armclient/resourceuri"
	"github.com/sujayvsarma/armclient/restapi"
	"github.com/sujayvsarma/armclient/types"
)

const (
	DomainRegistrationProvider   = "Microsoft.DomainRegistration"
	DomainRegistrationAPIVersion = "2023-12-01"
)

type IDomainsClient interface {
	CheckAvailability(ctx context.Context, subscription uuid.UUID, domainName string) (*DomainAvailabilityCheckResult, error)
	List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]Domain, error)
	Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, domainName string) (*Domain, error)
	Create(ctx context.Context, subscription uuid.UUID, resourceGroup string, domainName string, domain Domain) (*Domain, error)
	Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, domainName string, forceHardDelete bool) (bool, error)
}

// DomainsClient buys and manages App Service domains.
type DomainsClient struct {
	Logger *logrus.Logger

	domains restapi.ResourceType[Domain]
}

func NewDomainsClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *DomainsClient {
	return &DomainsClient{
		Logger: restapi.LoggerOrDiscard(logger),
		domains: restapi.ResourceType[Domain]{
			Client:     client,
			Provider:   DomainRegistrationProvider,
			Type:       "domains",
			APIVersion: restapi.ApplyOptions(DomainRegistrationAPIVersion, options...).APIVersion,
		},
	}
}

func (domains *DomainsClient) APIVersion() string {
	return domains.domains.APIVersion
}

func requireDomainName(domainName string) error {
	if err := restapi.RequireString("domainName", domainName); err != nil {
		return err
	}
	if GetPossibleTopLevelDomainName(domainName) == "" {
		return &restapi.ArgumentError{Name: "domainName", Reason: fmt.Sprintf("%q has no top level domain", domainName)}
	}
	return nil
}

func (domains *DomainsClient) CheckAvailability(ctx context.Context, subscription uuid.UUID, domainName string) (*DomainAvailabilityCheckResult, error) {
	if err := restapi.FirstError(
		restapi.RequireSubscription("subscription", subscription),
		requireDomainName(domainName),
	); err != nil {
		return nil, err
	}

	path, err := resourceuri.New(subscription).WithProvider(DomainRegistrationProvider).Build()
	if err != nil {
		return nil, err
	}
	result, err := restapi.Decode[DomainAvailabilityCheckResult](domains.domains.Client.POST(ctx, restapi.Request{
		URL:        path + "/checkDomainAvailability",
		APIVersion: domains.domains.APIVersion,
		Body:       NameIdentifier{Name: domainName},
	}))
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (domains *DomainsClient) List(ctx context.Context, subscription uuid.UUID, resourceGroup string) ([]Domain, error) {
	return domains.domains.List(ctx, subscription, resourceGroup)
}

func (domains *DomainsClient) Get(ctx context.Context, subscription uuid.UUID, resourceGroup string, domainName string) (*Domain, error) {
	return domains.domains.Get(ctx, subscription, resourceGroup, domainName, nil)
}

// Create registers domainName. The purchase consent and the four contacts are required by the registrar.
func (domains *DomainsClient) Create(ctx context.Context, subscription uuid.UUID, resourceGroup string, domainName string, domain Domain) (*Domain, error) {
	if err := restapi.FirstError(
		requireDomainName(domainName),
		restapi.RequireNotNil("properties", domain.Properties),
	); err != nil {
		return nil, err
	}
	properties := domain.Properties
	if err := restapi.FirstError(
		restapi.RequireNotNil("consent", properties.Consent),
		restapi.RequireNotNil("contactRegistrant", properties.ContactRegistrant),
		restapi.RequireNotNil("contactAdmin", properties.ContactAdmin),
		restapi.RequireNotNil("contactBilling", properties.ContactBilling),
		restapi.RequireNotNil("contactTech", properties.ContactTech),
	); err != nil {
		return nil, err
	}
	if domain.Location == "" {
		domain.Location = "global"
	}

	domains.Logger.Infof("Registering domain %s in %s", domainName, resourceGroup)
	return domains.domains.CreateOrUpdate(ctx, subscription, resourceGroup, domainName, domain)
}

// Delete removes the domain. Without forceHardDelete the domain stays soft deleted and can be restored.
func (domains *DomainsClient) Delete(ctx context.Context, subscription uuid.UUID, resourceGroup string, domainName string, forceHardDelete bool) (bool, error) {
	path, err := domains.domains.Path(subscription, resourceGroup, domainName)
	if err != nil {
		return false, err
	}

	domains.Logger.Infof("Deleting domain %s in %s", domainName, resourceGroup)
	return domains.domains.Client.DELETE(ctx, restapi.Request{
		URL:                  path,
		APIVersion:           domains.domains.APIVersion,
		Query:                map[string]string{"forceHardDeleteDomain": fmt.Sprint(forceHardDelete)},
		ExpectedSuccessCodes: restapi.Expect(http.StatusOK, http.StatusNoContent, http.StatusNotFound),
	}).Found()
}

type ITopLevelDomainsClient interface {
	List(ctx context.Context, subscription uuid.UUID) ([]TopLevelDomain, error)
	Names(ctx context.Context, subscription uuid.UUID) (mapset.Set[string], error)
	ListAgreements(ctx context.Context, subscription uuid.UUID, topLevelDomain string, options TopLevelDomainAgreementOption) ([]TopLevelDomainAgreement, error)
}

// TopLevelDomainsClient lists the top level domains App Service can register names under.
type TopLevelDomainsClient struct {
	Logger *logrus.Logger

	client     *restapi.Client
	apiVersion string
}

func NewTopLevelDomainsClient(client *restapi.Client, logger *logrus.Logger, options ...restapi.ClientOption) *TopLevelDomainsClient {
	return &TopLevelDomainsClient{
		Logger:     restapi.LoggerOrDiscard(logger),
		client:     client,
		apiVersion: restapi.ApplyOptions(DomainRegistrationAPIVersion, options...).APIVersion,
	}
}

func (topLevelDomains *TopLevelDomainsClient) APIVersion() string {
	return topLevelDomains.apiVersion
}

func (topLevelDomains *TopLevelDomainsClient) path(subscription uuid.UUID) (string, error) {
	if err := restapi.RequireSubscription("subscription", subscription); err != nil {
		return "", err
	}
	return resourceuri.New(subscription).WithProvider(DomainRegistrationProvider).WithType("topLevelDomains").Build()
}

func (topLevelDomains *TopLevelDomainsClient) List(ctx context.Context, subscription uuid.UUID) ([]TopLevelDomain, error) {
	path, err := topLevelDomains.path(subscription)
	if err != nil {
		return nil, err
	}

	values, response := restapi.GETWithContinuations[TopLevelDomain](ctx, topLevelDomains.client, restapi.Request{
		URL:        path,
		APIVersion: topLevelDomains.apiVersion,
	}, nil)
	if err := response.AsError(); err != nil {
		return nil, err
	}
	return values, nil
}

// Names returns the lower-cased top level domain names, ready for ValidateDomainName.
func (topLevelDomains *TopLevelDomainsClient) Names(ctx context.Context, subscription uuid.UUID) (mapset.Set[string], error) {
	values, err := topLevelDomains.List(ctx, subscription)
	if err != nil {
		return nil, err
	}

	names := mapset.NewThreadUnsafeSet[string]()
	for _, value := range values {
		if labels := GetDomainNameComponents(value.Name); len(labels) > 0 {
			names.Add(strings.Join(labels, "."))
		}
	}
	topLevelDomains.Logger.Debugf("Found %d top level domains", names.Cardinality())
	return names, nil
}

func (topLevelDomains *TopLevelDomainsClient) ListAgreements(ctx context.Context, subscription uuid.UUID, topLevelDomain string, options TopLevelDomainAgreementOption) ([]TopLevelDomainAgreement, error) {
	if err := restapi.RequireString("topLevelDomain", topLevelDomain); err != nil {
		return nil, err
	}
	path, err := topLevelDomains.path(subscription)
	if err != nil {
		return nil, err
	}

	list, err := restapi.Decode[types.ListResponse[TopLevelDomainAgreement]](topLevelDomains.client.POST(ctx, restapi.Request{
		URL:        path + "/" + url.PathEscape(topLevelDomain) + "/listAgreements",
		APIVersion: topLevelDomains.apiVersion,
		Body:       options,
	}))
	if err != nil {
		return nil, err
	}
	return list.Values, nil
}
