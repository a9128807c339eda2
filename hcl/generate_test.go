package hcl

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sujayvsarma/armclient/types"
)

var adopted = []types.AzureObjectBase{
	{
		ResourceId: "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/resourceGroups/rg1/providers/Microsoft.Web/sites/app1",
		Name:       "app1",
		Type:       "Microsoft.Web/sites",
		Location:   "westeurope",
		Tags:       map[string]string{"env": "prod"},
	},
	{
		ResourceId: "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/resourceGroups/rg2/providers/Microsoft.Web/sites/app1",
		Name:       "app1",
		Type:       "Microsoft.Web/sites",
	},
	{
		ResourceId: "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/resourceGroups/rg1/providers/Microsoft.Web/sites/app1/slots/staging",
		Name:       "staging",
		Type:       "Microsoft.Web/sites/slots",
	},
}

func TestResourceLabels(t *testing.T) {
	labels := ResourceLabels(append(adopted, types.AzureObjectBase{Name: "1st.db", Type: ""}))
	assert.Equal(t, []string{"sites_app1", "sites_app1_2", "slots_staging", "resource_1st_db"}, labels)
}

func TestResourceLabels_SuffixDoesNotCollide(t *testing.T) {
	sites := []types.AzureObjectBase{
		{Name: "app", Type: "Microsoft.Web/sites"},
		{Name: "app", Type: "Microsoft.Web/sites"},
		{Name: "app_2", Type: "Microsoft.Web/sites"},
		{Name: "app-2", Type: "Microsoft.Web/sites"},
		{Name: "app", Type: "Microsoft.Web/sites"},
	}

	labels := ResourceLabels(sites)
	assert.Equal(t, []string{"sites_app", "sites_app_2", "sites_app_2_2", "sites_app_2_3", "sites_app_3"}, labels)

	unique := map[string]bool{}
	for _, label := range labels {
		assert.False(t, unique[label], "label %s emitted twice", label)
		unique[label] = true
	}
}

func TestHclClient_WriteImportBlocks(t *testing.T) {
	folder := t.TempDir()
	hclClient := NewHclClient(folder, nil)

	path, err := hclClient.WriteImportBlocks(adopted, "imports.tf")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `id = "/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/resourceGroups/rg1/providers/Microsoft.Web/sites/app1"`)
	assert.Contains(t, string(content), "to = azapi_resource.sites_app1\n")
	assert.Contains(t, string(content), "to = azapi_resource.sites_app1_2\n")
}

func TestHclClient_WriteResourceBlocks(t *testing.T) {
	folder := t.TempDir()
	hclClient := NewHclClient(folder, nil)
	resolver := func(resourceType string) (string, error) {
		return "2023-12-01", nil
	}

	path, err := hclClient.WriteResourceBlocks(adopted, resolver, "main.tf")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, `resource "azapi_resource" "sites_app1" {`)
	assert.Contains(t, text, `"Microsoft.Web/sites@2023-12-01"`)
	assert.Contains(t, text, `"/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/resourceGroups/rg1"`)
	assert.Contains(t, text, `"/subscriptions/5f2a6c1e-3b7d-4e89-9c0a-1d2e3f4a5b6c/resourceGroups/rg1/providers/Microsoft.Web/sites/app1"`)
	assert.Contains(t, text, `env = "prod"`)

	_, err = hclClient.WriteResourceBlocks(adopted, func(string) (string, error) { return "", errors.New("unknown type") }, "main.tf")
	assert.ErrorContains(t, err, "unknown type")
}

func TestHclClient_CleanFiles(t *testing.T) {
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, "imports.tf"), []byte("#"), 0o644))

	hclClient := NewHclClient(folder, nil)
	require.NoError(t, hclClient.CleanFiles([]string{"imports.tf", "missing.tf"}))
	assert.NoFileExists(t, filepath.Join(folder, "imports.tf"))
}

func TestNewHclClient_NilLoggerDiscards(t *testing.T) {
	hclClient := NewHclClient(t.TempDir(), nil)

	require.NotNil(t, hclClient.Logger)
	assert.Equal(t, io.Discard, hclClient.Logger.Out)
}
