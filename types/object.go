package types

import (
	"strings"

	"github.com/sujayvsarma/armclient/resourceuri"
)

// AzureObjectBase is the envelope shared by top level ARM resources.
type AzureObjectBase struct {
	ResourceId string            `json:"id,omitempty"`
	Name       string            `json:"name,omitempty"`
	Type       string            `json:"type,omitempty"`
	Location   string            `json:"location,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
}

// ResourceUri parses ResourceId.
func (object AzureObjectBase) ResourceUri() (*resourceuri.ResourceUri, error) {
	return resourceuri.Parse(object.ResourceId)
}

// HasConsistentType reports whether Type names the same resource type as the
// provider/type segment of ResourceId.
func (object AzureObjectBase) HasConsistentType() bool {
	uri, err := object.ResourceUri()
	if err != nil {
		return false
	}
	if uri.ProviderName == "" {
		// subscription and resource group ids carry no provider segment
		return object.Type == "" || strings.HasPrefix(strings.ToLower(object.Type), "microsoft.resources/")
	}
	return strings.EqualFold(uri.FullType(), object.Type)
}

func (object AzureObjectBase) Tag(name string) (string, bool) {
	for key, value := range object.Tags {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return "", false
}

// SubResource references another resource by id without embedding it.
type SubResource struct {
	ResourceId string `json:"id,omitempty"`
}

func NewSubResource(uri *resourceuri.ResourceUri) SubResource {
	return SubResource{ResourceId: uri.String()}
}

// ListResponse is the paged list envelope returned by ARM list operations.
type ListResponse[T any] struct {
	Values   []T    `json:"value"`
	NextLink string `json:"nextLink,omitempty"`
}

func (list ListResponse[T]) HasMore() bool {
	return list.NextLink != ""
}
