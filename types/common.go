package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ProvisioningState int

const (
	ProvisioningStateUnknown ProvisioningState = iota
	ProvisioningStateAccepted
	ProvisioningStateCreating
	ProvisioningStateUpdating
	ProvisioningStateRunning
	ProvisioningStateSucceeded
	ProvisioningStateFailed
	ProvisioningStateCanceled
	ProvisioningStateDeleting
	ProvisioningStateDeleted
	ProvisioningStateInProgress
	ProvisioningStateReady
	ProvisioningStateResolvingDNS
	ProvisioningStateProvisioning
	ProvisioningStateMigrating

	ProvisioningStateDefault = ProvisioningStateUnknown
)

var provisioningStateTable = NewEnumTable("ProvisioningState", map[ProvisioningState]string{
	ProvisioningStateUnknown:      "Unknown",
	ProvisioningStateAccepted:     "Accepted",
	ProvisioningStateCreating:     "Creating",
	ProvisioningStateUpdating:     "Updating",
	ProvisioningStateRunning:      "Running",
	ProvisioningStateSucceeded:    "Succeeded",
	ProvisioningStateFailed:       "Failed",
	ProvisioningStateCanceled:     "Canceled",
	ProvisioningStateDeleting:     "Deleting",
	ProvisioningStateDeleted:      "Deleted",
	ProvisioningStateInProgress:   "InProgress",
	ProvisioningStateReady:        "Ready",
	ProvisioningStateResolvingDNS: "ResolvingDNS",
	ProvisioningStateProvisioning: "Provisioning",
	ProvisioningStateMigrating:    "Migrating",
}).WithAlias("Cancelled", ProvisioningStateCanceled).WithFallback(ProvisioningStateUnknown)

func ParseProvisioningState(s string) (ProvisioningState, error) {
	return provisioningStateTable.Parse(s)
}

func (state ProvisioningState) String() string { return provisioningStateTable.String(state) }
func (state ProvisioningState) MarshalJSON() ([]byte, error) {
	return provisioningStateTable.Marshal(state)
}
func (state *ProvisioningState) UnmarshalJSON(data []byte) error {
	return provisioningStateTable.Unmarshal(data, state)
}

// IsTerminal reports whether no further transition is expected.
func (state ProvisioningState) IsTerminal() bool {
	switch state {
	case ProvisioningStateSucceeded, ProvisioningStateFailed, ProvisioningStateCanceled, ProvisioningStateDeleted, ProvisioningStateReady:
		return true
	default:
		return false
	}
}

type ManagedIdentityType int

const (
	ManagedIdentityTypeNone ManagedIdentityType = iota
	ManagedIdentityTypeSystemAssigned
	ManagedIdentityTypeUserAssigned
	ManagedIdentityTypeSystemAndUserAssigned

	ManagedIdentityTypeDefault = ManagedIdentityTypeNone
)

var managedIdentityTypeTable = NewEnumTable("ManagedIdentityType", map[ManagedIdentityType]string{
	ManagedIdentityTypeNone:                  "None",
	ManagedIdentityTypeSystemAssigned:        "SystemAssigned",
	ManagedIdentityTypeUserAssigned:          "UserAssigned",
	ManagedIdentityTypeSystemAndUserAssigned: "SystemAssigned, UserAssigned",
}).WithAlias("SystemAssigned,UserAssigned", ManagedIdentityTypeSystemAndUserAssigned)

func (identityType ManagedIdentityType) String() string {
	return managedIdentityTypeTable.String(identityType)
}
func (identityType ManagedIdentityType) MarshalJSON() ([]byte, error) {
	return managedIdentityTypeTable.Marshal(identityType)
}
func (identityType *ManagedIdentityType) UnmarshalJSON(data []byte) error {
	return managedIdentityTypeTable.Unmarshal(data, identityType)
}

// ManagedIdentity is the identity block of a resource.
type ManagedIdentity struct {
	Type                   ManagedIdentityType              `json:"type"`
	PrincipalId            *uuid.UUID                       `json:"principalId,omitempty"`
	TenantId               *uuid.UUID                       `json:"tenantId,omitempty"`
	UserAssignedIdentities map[string]*UserAssignedIdentity `json:"userAssignedIdentities,omitempty"`
}

type UserAssignedIdentity struct {
	PrincipalId *uuid.UUID `json:"principalId,omitempty"`
	ClientId    *uuid.UUID `json:"clientId,omitempty"`
}

type Sku struct {
	Name     string `json:"name,omitempty"`
	Tier     string `json:"tier,omitempty"`
	Size     string `json:"size,omitempty"`
	Family   string `json:"family,omitempty"`
	Model    string `json:"model,omitempty"`
	Capacity *int   `json:"capacity,omitempty"`
}

// Plan describes a marketplace purchase plan attached to a resource.
type Plan struct {
	Name          string `json:"name,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	Product       string `json:"product,omitempty"`
	PromotionCode string `json:"promotionCode,omitempty"`
	Version       string `json:"version,omitempty"`
}

type ExtendedLocation struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
}

// SystemData carries ARM's creation and modification audit fields.
type SystemData struct {
	CreatedBy          string     `json:"createdBy,omitempty"`
	CreatedByType      string     `json:"createdByType,omitempty"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
	LastModifiedBy     string     `json:"lastModifiedBy,omitempty"`
	LastModifiedByType string     `json:"lastModifiedByType,omitempty"`
	LastModifiedAt     *time.Time `json:"lastModifiedAt,omitempty"`
}

// GenericResource is any ARM resource. Properties are left undecoded and members
// outside the common envelope are kept in the embedded remainder.
type GenericResource struct {
	AzureObjectBase
	Kind             string            `json:"kind,omitempty"`
	ManagedBy        string            `json:"managedBy,omitempty"`
	Sku              *Sku              `json:"sku,omitempty"`
	Plan             *Plan             `json:"plan,omitempty"`
	Identity         *ManagedIdentity  `json:"identity,omitempty"`
	ExtendedLocation *ExtendedLocation `json:"extendedLocation,omitempty"`
	Zones            []string          `json:"zones,omitempty"`
	Properties       json.RawMessage   `json:"properties,omitempty"`
	SystemData       *SystemData       `json:"systemData,omitempty"`

	ExtensibleObject `json:"-"`
}

type genericResource GenericResource

func (resource *GenericResource) UnmarshalJSON(data []byte) error {
	var model genericResource
	extra, err := UnmarshalExtensible(data, &model)
	if err != nil {
		return err
	}
	*resource = GenericResource(model)
	resource.ExtensibleObject = extra
	return nil
}

func (resource GenericResource) MarshalJSON() ([]byte, error) {
	return MarshalExtensible(genericResource(resource), resource.ExtensibleObject)
}

// DecodeProperties unmarshals the properties bag into v.
func (resource GenericResource) DecodeProperties(v any) error {
	if len(resource.Properties) == 0 {
		return nil
	}
	return json.Unmarshal(resource.Properties, v)
}
