package hcl

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"

	"github.com/sujayvsarma/armclient/resourceuri"
	"github.com/sujayvsarma/armclient/restapi"
	"github.com/sujayvsarma/armclient/types"
)

const azapiResourceType = "azapi_resource"

// APIVersionResolver returns the API version to declare for an ARM resource type.
type APIVersionResolver func(resourceType string) (string, error)

type IHclClient interface {
	WriteImportBlocks(resources []types.AzureObjectBase, fileName string) (string, error)
	WriteResourceBlocks(resources []types.AzureObjectBase, resolve APIVersionResolver, fileName string) (string, error)
	CleanFiles(filesToRemove []string) error
}

// HclClient writes Terraform configuration that adopts existing ARM resources as azapi_resource.
type HclClient struct {
	TerraformModulePath string
	Logger              *logrus.Logger
}

func NewHclClient(terraformModulePath string, logger *logrus.Logger) *HclClient {
	return &HclClient{
		TerraformModulePath: terraformModulePath,
		Logger:              restapi.LoggerOrDiscard(logger),
	}
}

type ImportBlock struct {
	ID string
	To string
}

var invalidLabelCharacters = regexp.MustCompile(`[^a-z0-9_]+`)

// ResourceLabels names each resource after its type and name, e.g. sites_app1. A label already
// emitted gets the first free numeric suffix, so labels are unique. Labels follow the order of resources.
func ResourceLabels(resources []types.AzureObjectBase) []string {
	used := map[string]bool{}
	labels := make([]string, len(resources))
	for i, resource := range resources {
		typeName := resource.Type
		if slash := strings.LastIndex(typeName, "/"); slash >= 0 {
			typeName = typeName[slash+1:]
		}
		base := strings.Trim(invalidLabelCharacters.ReplaceAllString(strings.ToLower(typeName+"_"+resource.Name), "_"), "_")
		if base == "" || (base[0] >= '0' && base[0] <= '9') {
			base = "resource_" + base
		}

		label := base
		for suffix := 2; used[label]; suffix++ {
			label = fmt.Sprintf("%s_%d", base, suffix)
		}
		used[label] = true
		labels[i] = label
	}
	return labels
}

func ImportBlocksFor(resources []types.AzureObjectBase) []ImportBlock {
	labels := ResourceLabels(resources)
	importBlocks := make([]ImportBlock, len(resources))
	for i, resource := range resources {
		importBlocks[i] = ImportBlock{ID: resource.ResourceId, To: azapiResourceType + "." + labels[i]}
	}
	return importBlocks
}

func (hclClient *HclClient) WriteImportBlocks(resources []types.AzureObjectBase, fileName string) (string, error) {
	hclFile := hclwrite.NewEmptyFile()

	for _, importBlock := range ImportBlocksFor(resources) {
		resourceBlock := hclFile.Body().AppendNewBlock("import", nil)
		resourceBlock.Body().SetAttributeValue("id", cty.StringVal(importBlock.ID))
		address := strings.SplitN(importBlock.To, ".", 2)
		traversal := hcl.Traversal{
			hcl.TraverseRoot{Name: address[0]},
			hcl.TraverseAttr{Name: address[1]},
		}
		resourceBlock.Body().SetAttributeTraversal("to", traversal)
		hclFile.Body().AppendNewline()
	}

	return hclClient.write(hclFile, fileName, "imports")
}

// WriteResourceBlocks writes an azapi_resource block per resource with its type, name, parent and location.
func (hclClient *HclClient) WriteResourceBlocks(resources []types.AzureObjectBase, resolve APIVersionResolver, fileName string) (string, error) {
	hclFile := hclwrite.NewEmptyFile()
	labels := ResourceLabels(resources)

	for i, resource := range resources {
		uri, err := resourceuri.Parse(resource.ResourceId)
		if err != nil {
			return "", fmt.Errorf("hcl.WriteResourceBlocks: %w", err)
		}
		resourceType := resource.Type
		if resourceType == "" {
			resourceType = uri.FullType()
		}
		apiVersion, err := resolve(resourceType)
		if err != nil {
			return "", fmt.Errorf("hcl.WriteResourceBlocks: api version of %s: %w", resourceType, err)
		}
		armID, err := uri.ToARMResourceID()
		if err != nil {
			return "", fmt.Errorf("hcl.WriteResourceBlocks: %w", err)
		}

		resourceBlock := hclFile.Body().AppendNewBlock("resource", []string{azapiResourceType, labels[i]})
		body := resourceBlock.Body()
		body.SetAttributeValue("type", cty.StringVal(resourceType+"@"+apiVersion))
		body.SetAttributeValue("name", cty.StringVal(resource.Name))
		if armID.Parent != nil {
			body.SetAttributeValue("parent_id", cty.StringVal(armID.Parent.String()))
		}
		if resource.Location != "" {
			body.SetAttributeValue("location", cty.StringVal(resource.Location))
		}
		if len(resource.Tags) > 0 {
			tags := make(map[string]cty.Value, len(resource.Tags))
			for key, value := range resource.Tags {
				tags[key] = cty.StringVal(value)
			}
			body.SetAttributeValue("tags", cty.MapVal(tags))
		}
		hclFile.Body().AppendNewline()
	}

	return hclClient.write(hclFile, fileName, "resources")
}

func (hclClient *HclClient) write(hclFile *hclwrite.File, fileName string, kind string) (string, error) {
	hclFilePath := filepath.Join(hclClient.TerraformModulePath, fileName)
	if err := os.WriteFile(hclFilePath, hclFile.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("hcl: writing %s: %w", hclFilePath, err)
	}

	hclClient.Logger.Infof("HCL %s file %s written to: %s", kind, fileName, hclFilePath)
	return hclFilePath, nil
}

func (hclClient *HclClient) CleanFiles(filesToRemove []string) error {
	for _, fileName := range filesToRemove {
		filePath := filepath.Join(hclClient.TerraformModulePath, fileName)
		if _, err := os.Stat(filePath); err == nil {
			hclClient.Logger.Debugf("File %s already exists, it will be deleted", filePath)
			if err := os.Remove(filePath); err != nil {
				return fmt.Errorf("hcl: deleting %s: %w", filePath, err)
			}
		}
	}
	return nil
}
