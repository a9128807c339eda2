package resources

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/sujayvsarma/armclient/types"
)

type ResourceGroup struct {
	types.AzureObjectBase
	ManagedBy  string                   `json:"managedBy,omitempty"`
	Properties *ResourceGroupProperties `json:"properties,omitempty"`
}

type ResourceGroupProperties struct {
	ProvisioningState types.ProvisioningState `json:"provisioningState,omitempty"`
}

// NewResourceGroup is the request body for CreateOrUpdate.
func NewResourceGroup(location string, tags map[string]string) ResourceGroup {
	return ResourceGroup{AzureObjectBase: types.AzureObjectBase{Location: location, Tags: tags}}
}

// TagsPatch is the body of PATCH operations that only replace tags.
type TagsPatch struct {
	Tags map[string]string `json:"tags"`
}

type ExportTemplateRequest struct {
	Resources []string `json:"resources"`
	Options   string   `json:"options,omitempty"`
}

type ExportTemplateResult struct {
	Template json.RawMessage `json:"template,omitempty"`
	Error    *ErrorResponse  `json:"error,omitempty"`
}

type ErrorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Target  string `json:"target,omitempty"`
}

type SubscriptionState int

const (
	SubscriptionStateEnabled SubscriptionState = iota
	SubscriptionStateWarned
	SubscriptionStatePastDue
	SubscriptionStateDisabled
	SubscriptionStateDeleted
	SubscriptionStateUnknown

	SubscriptionStateDefault = SubscriptionStateEnabled
)

var subscriptionStateTable = types.NewEnumTable("SubscriptionState", map[SubscriptionState]string{
	SubscriptionStateEnabled:  "Enabled",
	SubscriptionStateWarned:   "Warned",
	SubscriptionStatePastDue:  "PastDue",
	SubscriptionStateDisabled: "Disabled",
	SubscriptionStateDeleted:  "Deleted",
	SubscriptionStateUnknown:  "Unknown",
}).WithFallback(SubscriptionStateUnknown)

func (state SubscriptionState) String() string { return subscriptionStateTable.String(state) }
func (state SubscriptionState) MarshalJSON() ([]byte, error) {
	return subscriptionStateTable.Marshal(state)
}
func (state *SubscriptionState) UnmarshalJSON(data []byte) error {
	return subscriptionStateTable.Unmarshal(data, state)
}

type SpendingLimit int

const (
	SpendingLimitOn SpendingLimit = iota
	SpendingLimitOff
	SpendingLimitCurrentPeriodOff
	SpendingLimitUnknown

	SpendingLimitDefault = SpendingLimitOn
)

var spendingLimitTable = types.NewEnumTable("SpendingLimit", map[SpendingLimit]string{
	SpendingLimitOn:               "On",
	SpendingLimitOff:              "Off",
	SpendingLimitCurrentPeriodOff: "CurrentPeriodOff",
	SpendingLimitUnknown:          "Unknown",
}).WithFallback(SpendingLimitUnknown)

func (limit SpendingLimit) String() string { return spendingLimitTable.String(limit) }
func (limit SpendingLimit) MarshalJSON() ([]byte, error) {
	return spendingLimitTable.Marshal(limit)
}
func (limit *SpendingLimit) UnmarshalJSON(data []byte) error {
	return spendingLimitTable.Unmarshal(data, limit)
}

type Subscription struct {
	ResourceId          string                `json:"id,omitempty"`
	SubscriptionId      uuid.UUID             `json:"subscriptionId"`
	TenantId            *uuid.UUID            `json:"tenantId,omitempty"`
	DisplayName         string                `json:"displayName,omitempty"`
	State               SubscriptionState     `json:"state"`
	AuthorizationSource string                `json:"authorizationSource,omitempty"`
	Policies            *SubscriptionPolicies `json:"subscriptionPolicies,omitempty"`
	Tags                map[string]string     `json:"tags,omitempty"`
}

type SubscriptionPolicies struct {
	LocationPlacementId string        `json:"locationPlacementId,omitempty"`
	QuotaId             string        `json:"quotaId,omitempty"`
	SpendingLimit       SpendingLimit `json:"spendingLimit"`
}

type Location struct {
	ResourceId          string            `json:"id,omitempty"`
	SubscriptionId      string            `json:"subscriptionId,omitempty"`
	Name                string            `json:"name"`
	DisplayName         string            `json:"displayName,omitempty"`
	RegionalDisplayName string            `json:"regionalDisplayName,omitempty"`
	Metadata            *LocationMetadata `json:"metadata,omitempty"`
}

type LocationMetadata struct {
	RegionType       string              `json:"regionType,omitempty"`
	RegionCategory   string              `json:"regionCategory,omitempty"`
	GeographyGroup   string              `json:"geographyGroup,omitempty"`
	Longitude        string              `json:"longitude,omitempty"`
	Latitude         string              `json:"latitude,omitempty"`
	PhysicalLocation string              `json:"physicalLocation,omitempty"`
	PairedRegion     []types.SubResource `json:"pairedRegion,omitempty"`
}

type RegistrationState int

const (
	RegistrationStateNotRegistered RegistrationState = iota
	RegistrationStateRegistering
	RegistrationStateRegistered
	RegistrationStateUnregistering
	RegistrationStateUnregistered
	RegistrationStateUnknown

	RegistrationStateDefault = RegistrationStateNotRegistered
)

var registrationStateTable = types.NewEnumTable("RegistrationState", map[RegistrationState]string{
	RegistrationStateNotRegistered: "NotRegistered",
	RegistrationStateRegistering:   "Registering",
	RegistrationStateRegistered:    "Registered",
	RegistrationStateUnregistering: "Unregistering",
	RegistrationStateUnregistered:  "Unregistered",
	RegistrationStateUnknown:       "Unknown",
}).WithFallback(RegistrationStateUnknown)

func (state RegistrationState) String() string { return registrationStateTable.String(state) }
func (state RegistrationState) MarshalJSON() ([]byte, error) {
	return registrationStateTable.Marshal(state)
}
func (state *RegistrationState) UnmarshalJSON(data []byte) error {
	return registrationStateTable.Unmarshal(data, state)
}

type Provider struct {
	ResourceId         string                 `json:"id,omitempty"`
	Namespace          string                 `json:"namespace"`
	RegistrationState  RegistrationState      `json:"registrationState"`
	RegistrationPolicy string                 `json:"registrationPolicy,omitempty"`
	ResourceTypes      []ProviderResourceType `json:"resourceTypes,omitempty"`
}

type ProviderResourceType struct {
	ResourceType string   `json:"resourceType"`
	Locations    []string `json:"locations,omitempty"`
	ApiVersions  []string `json:"apiVersions,omitempty"`
	Capabilities string   `json:"capabilities,omitempty"`
}

// LatestApiVersion returns the newest API version the provider publishes for resourceType,
// preferring stable versions over previews.
func (provider Provider) LatestApiVersion(resourceType string, includePreview bool) (string, bool) {
	for _, candidate := range provider.ResourceTypes {
		if !equalFold(candidate.ResourceType, resourceType) {
			continue
		}
		// ARM lists versions newest first
		for _, version := range candidate.ApiVersions {
			if includePreview || !isPreview(version) {
				return version, true
			}
		}
	}
	return "", false
}

type DeploymentMode int

const (
	DeploymentModeIncremental DeploymentMode = iota
	DeploymentModeComplete

	DeploymentModeDefault = DeploymentModeIncremental
)

var deploymentModeTable = types.NewEnumTable("DeploymentMode", map[DeploymentMode]string{
	DeploymentModeIncremental: "Incremental",
	DeploymentModeComplete:    "Complete",
})

func (mode DeploymentMode) String() string { return deploymentModeTable.String(mode) }
func (mode DeploymentMode) MarshalJSON() ([]byte, error) {
	return deploymentModeTable.Marshal(mode)
}
func (mode *DeploymentMode) UnmarshalJSON(data []byte) error {
	return deploymentModeTable.Unmarshal(data, mode)
}

type Deployment struct {
	ResourceId string                `json:"id,omitempty"`
	Name       string                `json:"name,omitempty"`
	Type       string                `json:"type,omitempty"`
	Location   string                `json:"location,omitempty"`
	Tags       map[string]string     `json:"tags,omitempty"`
	Properties *DeploymentProperties `json:"properties,omitempty"`
}

type DeploymentProperties struct {
	Mode              DeploymentMode          `json:"mode"`
	Template          json.RawMessage         `json:"template,omitempty"`
	TemplateLink      *ContentLink            `json:"templateLink,omitempty"`
	Parameters        json.RawMessage         `json:"parameters,omitempty"`
	ParametersLink    *ContentLink            `json:"parametersLink,omitempty"`
	ProvisioningState types.ProvisioningState `json:"provisioningState,omitempty"`
	CorrelationId     string                  `json:"correlationId,omitempty"`
	Timestamp         *time.Time              `json:"timestamp,omitempty"`
	Duration          string                  `json:"duration,omitempty"`
	Outputs           json.RawMessage         `json:"outputs,omitempty"`
	OutputResources   []types.SubResource     `json:"outputResources,omitempty"`
	Error             *ErrorResponse          `json:"error,omitempty"`
}

type ContentLink struct {
	Uri            string `json:"uri"`
	ContentVersion string `json:"contentVersion,omitempty"`
}

// NewDeployment is the request body for an inline template deployment.
func NewDeployment(mode DeploymentMode, template json.RawMessage, parameters json.RawMessage) Deployment {
	return Deployment{Properties: &DeploymentProperties{Mode: mode, Template: template, Parameters: parameters}}
}

type DeploymentValidateResult struct {
	Error      *ErrorResponse        `json:"error,omitempty"`
	Properties *DeploymentProperties `json:"properties,omitempty"`
}

type TagDetails struct {
	ResourceId string     `json:"id,omitempty"`
	TagName    string     `json:"tagName"`
	Count      *TagCount  `json:"count,omitempty"`
	Values     []TagValue `json:"values,omitempty"`
}

type TagValue struct {
	ResourceId string    `json:"id,omitempty"`
	TagValue   string    `json:"tagValue"`
	Count      *TagCount `json:"count,omitempty"`
}

type TagCount struct {
	Type  string `json:"type,omitempty"`
	Value int    `json:"value"`
}
