package appservice

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujayvsarma/armclient/restapi"
	"github.com/sujayvsarma/armclient/restapi/restapitest"
)

var testSubscription = uuid.MustParse("5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c")

const groupPath = "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/resourceGroups/rg1/providers/"

func TestGetDomainNameComponents(t *testing.T) {
	assert.Equal(t, []string{"foo", "co", "in"}, GetDomainNameComponents("foo.co.in"))
	assert.Equal(t, []string{"foo", "com"}, GetDomainNameComponents(" Foo.COM. "))
	assert.Empty(t, GetDomainNameComponents(""))
}

func TestGetPossibleTopLevelDomainName(t *testing.T) {
	assert.Equal(t, "co.in", GetPossibleTopLevelDomainName("foo.co.in"))
	assert.Equal(t, "com", GetPossibleTopLevelDomainName("contoso.com"))
	assert.Equal(t, "", GetPossibleTopLevelDomainName("localhost"))
}

func TestValidateDomainName(t *testing.T) {
	tests := []struct {
		name            string
		domainName      string
		topLevelDomains mapset.Set[string]
		valid           bool
	}{
		{"multi label top level domain", "foo.co.in", mapset.NewSet("co.in", "com"), true},
		{"unknown top level domain", "foo.xyz", mapset.NewSet("com"), false},
		{"case and leading dot ignored", "Contoso.COM", mapset.NewSet(".com"), true},
		{"second level only matches whole suffix", "foo.co.in", mapset.NewSet("in"), false},
		{"single label", "com", mapset.NewSet("com"), false},
		{"invalid label", "-foo.com", mapset.NewSet("com"), false},
		{"underscore", "foo_bar.com", mapset.NewSet("com"), false},
		{"no known domains", "foo.com", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidateDomainName(tt.domainName, tt.topLevelDomains))
		})
	}
}

func TestCertificateOrderStatus_Default(t *testing.T) {
	assert.Equal(t, CertificateOrderStatusNotSubmitted, CertificateOrderStatusDefault)
	assert.Equal(t, "NotSubmitted", CertificateOrderStatusDefault.String())

	var properties CertificateOrderProperties
	require.NoError(t, json.Unmarshal([]byte(`{"productType":"StandardDomainValidatedWildCardSsl","status":"Pendingissuance"}`), &properties))
	assert.Equal(t, CertificateOrderStatusPendingIssuance, properties.Status)
	assert.Equal(t, CertificateProductTypeStandardDomainValidatedWildCardSsl, properties.ProductType)

	assert.Error(t, json.Unmarshal([]byte(`{"status":"Shipped"}`), &properties))
}

func TestDomainsClient_CheckAvailability(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodPost, "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/providers/Microsoft.DomainRegistration/checkDomainAvailability", http.StatusOK,
		`{"name":"contoso.com","available":false,"domainType":"SoftDeleted"}`)

	domains := NewDomainsClient(server.Client(), nil)
	result, err := domains.CheckAvailability(context.Background(), testSubscription, "contoso.com")

	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, DomainTypeSoftDeleted, result.DomainType)
	assert.JSONEq(t, `{"name":"contoso.com"}`, server.LastCall().Body)

	var argumentError *restapi.ArgumentError
	_, err = domains.CheckAvailability(context.Background(), testSubscription, "contoso")
	require.ErrorAs(t, err, &argumentError)
	assert.Equal(t, "domainName", argumentError.Name)
	assert.Len(t, server.Calls(), 1)
}

func TestDomainsClient_CreateAndDelete(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodPut, groupPath+"Microsoft.DomainRegistration/domains/contoso.com", http.StatusAccepted,
		`{"name":"contoso.com","location":"global","properties":{"registrationStatus":"Pending","provisioningState":"InProgress"}}`)
	server.Handle(http.MethodDelete, groupPath+"Microsoft.DomainRegistration/domains/contoso.com", http.StatusOK, nil)

	domains := NewDomainsClient(server.Client(), nil)
	contact := &Contact{NameFirst: "Ada", NameLast: "Lovelace", Email: "ada@contoso.com", Phone: "+1.5550100"}

	_, err := domains.Create(context.Background(), testSubscription, "rg1", "contoso.com", Domain{Properties: &DomainProperties{ContactAdmin: contact}})
	var argumentError *restapi.ArgumentError
	require.ErrorAs(t, err, &argumentError)
	assert.Equal(t, "consent", argumentError.Name)

	domain, err := domains.Create(context.Background(), testSubscription, "rg1", "contoso.com", Domain{Properties: &DomainProperties{
		ContactAdmin:      contact,
		ContactBilling:    contact,
		ContactRegistrant: contact,
		ContactTech:       contact,
		Consent:           &DomainPurchaseConsent{AgreementKeys: []string{"DNRA"}, AgreedBy: "10.0.0.1"},
	}})
	require.NoError(t, err)
	assert.Equal(t, DomainStatusPending, *domain.Properties.RegistrationStatus)
	assert.Contains(t, server.LastCall().Body, `"location":"global"`)

	deleted, err := domains.Delete(context.Background(), testSubscription, "rg1", "contoso.com", true)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestTopLevelDomainsClient_Names(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodGet, "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/providers/Microsoft.DomainRegistration/topLevelDomains", http.StatusOK,
		`{"value":[{"name":"com","properties":{"privacy":true}},{"name":"CO.IN"}]}`)
	server.Handle(http.MethodPost, "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/providers/Microsoft.DomainRegistration/topLevelDomains/com/listAgreements", http.StatusOK,
		`{"value":[{"agreementKey":"DNRA","title":"Domain Name Registration Agreement","content":"..."}]}`)

	topLevelDomains := NewTopLevelDomainsClient(server.Client(), nil)
	names, err := topLevelDomains.Names(context.Background(), testSubscription)

	require.NoError(t, err)
	assert.True(t, names.Contains("com", "co.in"))
	assert.True(t, ValidateDomainName("foo.co.in", names))

	agreements, err := topLevelDomains.ListAgreements(context.Background(), testSubscription, "com", TopLevelDomainAgreementOption{IncludePrivacy: true})
	require.NoError(t, err)
	require.Len(t, agreements, 1)
	assert.Equal(t, "DNRA", agreements[0].AgreementKey)
	assert.JSONEq(t, `{"includePrivacy":true,"forTransfer":false}`, server.LastCall().Body)
}

func TestCertificateOrdersClient(t *testing.T) {
	server := restapitest.NewServer(t)
	orderPath := groupPath + "Microsoft.CertificateRegistration/certificateOrders/contoso-cert"
	server.Handle(http.MethodPut, orderPath, http.StatusCreated, `{"name":"contoso-cert","properties":{"productType":"StandardDomainValidatedSsl","status":"NotSubmitted"}}`)
	server.Handle(http.MethodPost, orderPath+"/renew", http.StatusNoContent, nil)
	server.Handle(http.MethodPost, orderPath+"/resendEmail", http.StatusNoContent, nil)

	orders := NewCertificateOrdersClient(server.Client(), nil)
	ctx := context.Background()

	order, err := orders.Create(ctx, testSubscription, "rg1", "contoso-cert", NewCertificateOrder("CN=contoso.com", CertificateProductTypeStandardDomainValidatedSsl))
	require.NoError(t, err)
	assert.Equal(t, CertificateOrderStatusDefault, order.Properties.Status)

	require.NoError(t, orders.Renew(ctx, testSubscription, "rg1", "contoso-cert", RenewCertificateOrderRequest{KeySize: 2048}))
	require.NoError(t, orders.ResendEmail(ctx, testSubscription, "rg1", "contoso-cert"))

	err = orders.ResendEmail(ctx, testSubscription, "rg1", "other-cert")
	assert.True(t, restapi.IsNotFound(err))
}

func TestSitesClient_PowerActions(t *testing.T) {
	server := restapitest.NewServer(t)
	for _, action := range []string{"start", "stop", "restart"} {
		server.Handle(http.MethodPost, groupPath+"Microsoft.Web/sites/app1/"+action, http.StatusOK, nil)
	}

	sites := NewSitesClient(server.Client(), nil)
	ctx := context.Background()

	require.NoError(t, sites.Start(ctx, testSubscription, "rg1", "app1"))
	require.NoError(t, sites.Stop(ctx, testSubscription, "rg1", "app1"))
	require.NoError(t, sites.Restart(ctx, testSubscription, "rg1", "app1"))
	assert.Len(t, server.Calls(), 3)
	assert.Equal(t, WebAPIVersion, server.LastCall().APIVersion)

	_, err := sites.CreateOrUpdate(ctx, testSubscription, "rg1", "app1", Site{})
	var argumentError *restapi.ArgumentError
	require.ErrorAs(t, err, &argumentError)
	assert.Equal(t, "location", argumentError.Name)
}

func TestServerFarmsClient_Get(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodGet, groupPath+"Microsoft.Web/serverfarms/plan1", http.StatusOK,
		`{"name":"plan1","kind":"linux","sku":{"name":"P1v3","tier":"PremiumV3","capacity":2},"properties":{"status":"Ready","numberOfSites":3,"reserved":true}}`)

	farms := NewServerFarmsClient(server.Client(), nil, restapi.WithAPIVersion("2022-09-01"))
	farm, err := farms.Get(context.Background(), testSubscription, "rg1", "plan1")

	require.NoError(t, err)
	assert.Equal(t, ServerFarmStatusReady, *farm.Properties.Status)
	assert.Equal(t, 2, *farm.Sku.Capacity)
	assert.Equal(t, "2022-09-01", farms.APIVersion())
	assert.Equal(t, "2022-09-01", server.LastCall().APIVersion)
}

func TestAppServiceStates_UnknownValues(t *testing.T) {
	server := restapitest.NewServer(t)
	server.Handle(http.MethodGet, groupPath+"Microsoft.Web/sites", http.StatusOK, `{"value":[
		{"name":"app1","properties":{"state":"Running"}},
		{"name":"app2","properties":{"state":"Suspended"}}
	]}`)
	server.Handle(http.MethodGet, groupPath+"Microsoft.Web/serverfarms/plan1", http.StatusOK, `{"name":"plan1","properties":{"status":"Migrating"}}`)
	server.Handle(http.MethodGet, groupPath+"Microsoft.CertificateRegistration/certificateOrders/contoso-cert", http.StatusOK,
		`{"name":"contoso-cert","properties":{"status":"AwaitingValidation"}}`)
	server.Handle(http.MethodGet, groupPath+"Microsoft.DomainRegistration/domains/contoso.com", http.StatusOK,
		`{"name":"contoso.com","properties":{"registrationStatus":"Quarantined"}}`)
	ctx := context.Background()

	sites, err := NewSitesClient(server.Client(), nil).List(ctx, testSubscription, "rg1")
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, SiteStateRunning, *sites[0].Properties.State)
	assert.Equal(t, SiteStateUnknown, *sites[1].Properties.State)

	farm, err := NewServerFarmsClient(server.Client(), nil).Get(ctx, testSubscription, "rg1", "plan1")
	require.NoError(t, err)
	assert.Equal(t, ServerFarmStatusUnknown, *farm.Properties.Status)

	order, err := NewCertificateOrdersClient(server.Client(), nil).Get(ctx, testSubscription, "rg1", "contoso-cert")
	require.NoError(t, err)
	assert.Equal(t, CertificateOrderStatusUnknown, order.Properties.Status)

	domain, err := NewDomainsClient(server.Client(), nil).Get(ctx, testSubscription, "rg1", "contoso.com")
	require.NoError(t, err)
	assert.Equal(t, DomainStatusUnknown, *domain.Properties.RegistrationStatus)
}
