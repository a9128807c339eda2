package cmd

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujayvsarma/armclient/resources"
)

type mockProviderClient struct {
	resources.IProviderClient
	Calls     []string
	Providers map[string]*resources.Provider
}

func (m *mockProviderClient) Get(ctx context.Context, subscription uuid.UUID, namespace string) (*resources.Provider, error) {
	m.Calls = append(m.Calls, namespace)
	provider, ok := m.Providers[namespace]
	if !ok {
		return nil, assert.AnError
	}
	return provider, nil
}

func TestAPIVersionResolver_Resolve(t *testing.T) {
	providers := &mockProviderClient{Providers: map[string]*resources.Provider{
		"microsoft.web": {
			Namespace: "Microsoft.Web",
			ResourceTypes: []resources.ProviderResourceType{
				{ResourceType: "sites", ApiVersions: []string{"2024-04-01-preview", "2023-12-01"}},
				{ResourceType: "sites/slots", ApiVersions: []string{"2023-12-01"}},
				{ResourceType: "staticSites", ApiVersions: []string{"2024-04-01-preview"}},
			},
		},
	}}
	resolver := newAPIVersionResolver(context.Background(), providers, uuid.MustParse("5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c"))

	version, err := resolver.Resolve("microsoft.web/sites")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-01", version)

	version, err = resolver.Resolve("microsoft.web/sites/slots")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-01", version)

	version, err = resolver.Resolve("microsoft.web/staticsites")
	require.NoError(t, err)
	assert.Equal(t, "2024-04-01-preview", version)

	assert.Equal(t, []string{"microsoft.web"}, providers.Calls)

	_, err = resolver.Resolve("microsoft.web/certificates")
	assert.ErrorContains(t, err, "no API version")

	_, err = resolver.Resolve("resourcegroups")
	assert.ErrorContains(t, err, "no provider namespace")

	_, err = resolver.Resolve("microsoft.sql/servers")
	assert.ErrorIs(t, err, assert.AnError)
}
