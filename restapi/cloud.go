package restapi

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
)

var nameToCloud = map[string]cloud.Configuration{
	"azurepublic":       cloud.AzurePublic,
	"public":            cloud.AzurePublic,
	"azureusgovernment": cloud.AzureGovernment,
	"usgovernment":      cloud.AzureGovernment,
	"azurechina":        cloud.AzureChina,
	"china":             cloud.AzureChina,
}

var authorityToEndpoint = map[string]string{
	cloud.AzurePublic.ActiveDirectoryAuthorityHost:     "https://management.azure.com",
	cloud.AzureGovernment.ActiveDirectoryAuthorityHost: "https://management.usgovcloudapi.net",
	cloud.AzureChina.ActiveDirectoryAuthorityHost:      "https://management.chinacloudapi.cn",
}

// CloudFromName resolves AzurePublic, AzureUSGovernment or AzureChina (case-insensitive).
// An empty name selects the public cloud.
func CloudFromName(name string) (cloud.Configuration, error) {
	if name == "" {
		return cloud.AzurePublic, nil
	}
	configuration, ok := nameToCloud[strings.ToLower(name)]
	if !ok {
		return cloud.Configuration{}, fmt.Errorf("unknown cloud %q", name)
	}
	return configuration, nil
}

// EndpointForCloud returns the Resource Manager endpoint of configuration without a trailing slash.
func EndpointForCloud(configuration cloud.Configuration) string {
	if service, ok := configuration.Services[cloud.ResourceManager]; ok && service.Endpoint != "" {
		return strings.TrimSuffix(service.Endpoint, "/")
	}
	if endpoint, ok := authorityToEndpoint[configuration.ActiveDirectoryAuthorityHost]; ok {
		return endpoint
	}
	return authorityToEndpoint[cloud.AzurePublic.ActiveDirectoryAuthorityHost]
}

// DefaultScope is the token scope for the Resource Manager endpoint.
func DefaultScope(endpoint string) string {
	return strings.TrimSuffix(endpoint, "/") + "/.default"
}
