package resourceuri

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/google/uuid"
)

const (
	segmentSubscriptions  = "subscriptions"
	segmentResourceGroups = "resourceGroups"
	segmentProviders      = "providers"
)

var (
	ErrMalformedResourceUri = errors.New("malformed resource uri")
	ErrInvalidResourceUri   = errors.New("resource uri has no subscription")
)

// ResourceUri is the parsed form of an ARM resource id such as
// /subscriptions/{id}/resourceGroups/{rg}/providers/{namespace}/{type}/{name}.
//
// ProviderName holds the namespace plus any parent type/name pairs of a nested
// resource, so Type and ResourceName always describe the last resource in the path.
type ResourceUri struct {
	Subscription      uuid.UUID
	ResourceGroupName string
	ProviderName      string
	Type              string
	ResourceName      string
}

// New returns a ResourceUri scoped to a subscription.
func New(subscription uuid.UUID) *ResourceUri {
	return &ResourceUri{Subscription: subscription}
}

// Parse splits an ARM resource id into its components.
func Parse(path string) (*ResourceUri, error) {
	segments := splitPath(path)
	if len(segments) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrMalformedResourceUri)
	}

	uri := &ResourceUri{}
	i := 0
	for i < len(segments) {
		marker := segments[i]
		switch {
		case strings.EqualFold(marker, segmentSubscriptions):
			if i+1 >= len(segments) {
				return nil, fmt.Errorf("%w: %q has no subscription id", ErrMalformedResourceUri, path)
			}
			subscription, err := uuid.Parse(segments[i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: subscription %q: %v", ErrMalformedResourceUri, segments[i+1], err)
			}
			uri.Subscription = subscription
			i += 2

		case strings.EqualFold(marker, segmentResourceGroups):
			if i+1 >= len(segments) {
				return nil, fmt.Errorf("%w: %q has no resource group name", ErrMalformedResourceUri, path)
			}
			uri.ResourceGroupName = segments[i+1]
			i += 2

		case strings.EqualFold(marker, segmentProviders):
			if i+1 >= len(segments) {
				return nil, fmt.Errorf("%w: %q has no provider namespace", ErrMalformedResourceUri, path)
			}
			uri.parseProviderSegments(segments[i+1:])
			i = len(segments)

		default:
			return nil, fmt.Errorf("%w: unexpected segment %q in %q", ErrMalformedResourceUri, marker, path)
		}
	}

	return uri, nil
}

// parseProviderSegments consumes everything after the providers marker:
// namespace, then type/name pairs. The last pair becomes Type/ResourceName and
// earlier pairs are folded into ProviderName. A dangling type without a name
// denotes a collection.
func (uri *ResourceUri) parseProviderSegments(segments []string) {
	provider := []string{segments[0]}
	rest := segments[1:]

	if len(rest)%2 == 1 {
		provider = append(provider, rest[:len(rest)-1]...)
		uri.Type = rest[len(rest)-1]
	} else if len(rest) >= 2 {
		provider = append(provider, rest[:len(rest)-2]...)
		uri.Type = rest[len(rest)-2]
		uri.ResourceName = rest[len(rest)-1]
	}

	uri.ProviderName = strings.Join(provider, "/")
}

func splitPath(path string) []string {
	segments := []string{}
	for _, segment := range strings.Split(strings.TrimSpace(path), "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}

func (uri *ResourceUri) WithResourceGroup(name string) *ResourceUri {
	uri.ResourceGroupName = name
	return uri
}

func (uri *ResourceUri) WithProvider(name string) *ResourceUri {
	uri.ProviderName = name
	return uri
}

func (uri *ResourceUri) WithType(resourceType string) *ResourceUri {
	uri.Type = resourceType
	return uri
}

func (uri *ResourceUri) WithName(name string) *ResourceUri {
	uri.ResourceName = name
	return uri
}

// IsValid reports whether the uri has a subscription.
func (uri *ResourceUri) IsValid() bool {
	return uri != nil && uri.Subscription != uuid.Nil
}

// Build assembles the resource id. Empty components are omitted.
func (uri *ResourceUri) Build() (string, error) {
	if !uri.IsValid() {
		return "", ErrInvalidResourceUri
	}

	var builder strings.Builder
	builder.WriteString("/" + segmentSubscriptions + "/" + uri.Subscription.String())

	if uri.ResourceGroupName != "" {
		builder.WriteString("/" + segmentResourceGroups + "/" + uri.ResourceGroupName)
	}
	if uri.ProviderName != "" {
		builder.WriteString("/" + segmentProviders + "/" + uri.ProviderName)
	}
	if uri.Type != "" {
		builder.WriteString("/" + uri.Type)
	}
	if uri.ResourceName != "" {
		builder.WriteString("/" + uri.ResourceName)
	}

	return builder.String(), nil
}

// String returns the resource id, or an empty string when the uri is not valid.
func (uri *ResourceUri) String() string {
	id, err := uri.Build()
	if err != nil {
		return ""
	}
	return id
}

// FullType returns the ARM resource type, e.g. Microsoft.Web/sites/slots.
func (uri *ResourceUri) FullType() string {
	if uri.ProviderName == "" {
		return uri.Type
	}

	// drop parent names out of the provider path: ns/parentType/parentName -> ns/parentType
	parts := strings.Split(uri.ProviderName, "/")
	typeParts := []string{parts[0]}
	for i := 1; i < len(parts); i += 2 {
		typeParts = append(typeParts, parts[i])
	}
	if uri.Type != "" {
		typeParts = append(typeParts, uri.Type)
	}
	return strings.Join(typeParts, "/")
}

// ToARMResourceID converts the uri into the azure-sdk-for-go representation.
func (uri *ResourceUri) ToARMResourceID() (*arm.ResourceID, error) {
	id, err := uri.Build()
	if err != nil {
		return nil, err
	}

	resourceID, err := arm.ParseResourceID(id)
	if err != nil {
		return nil, fmt.Errorf("resourceuri.ToARMResourceID: could not parse %s: %w", id, err)
	}
	return resourceID, nil
}
