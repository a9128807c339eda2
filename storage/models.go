package storage

import (
	"time"

	"github.com/sujayvsarma/armclient/types"
)

type Kind int

const (
	KindStorageV2 Kind = iota
	KindStorage
	KindBlobStorage
	KindFileStorage
	KindBlockBlobStorage

	KindDefault = KindStorageV2
)

var kindTable = types.NewEnumTable("Kind", map[Kind]string{
	KindStorageV2:        "StorageV2",
	KindStorage:          "Storage",
	KindBlobStorage:      "BlobStorage",
	KindFileStorage:      "FileStorage",
	KindBlockBlobStorage: "BlockBlobStorage",
})

func (kind Kind) String() string { return kindTable.String(kind) }
func (kind Kind) MarshalJSON() ([]byte, error) {
	return kindTable.Marshal(kind)
}
func (kind *Kind) UnmarshalJSON(data []byte) error {
	return kindTable.Unmarshal(data, kind)
}

type AccessTier int

const (
	AccessTierHot AccessTier = iota
	AccessTierCool
	AccessTierCold
	AccessTierPremium

	AccessTierDefault = AccessTierHot
)

var accessTierTable = types.NewEnumTable("AccessTier", map[AccessTier]string{
	AccessTierHot:     "Hot",
	AccessTierCool:    "Cool",
	AccessTierCold:    "Cold",
	AccessTierPremium: "Premium",
})

func (tier AccessTier) String() string { return accessTierTable.String(tier) }
func (tier AccessTier) MarshalJSON() ([]byte, error) {
	return accessTierTable.Marshal(tier)
}
func (tier *AccessTier) UnmarshalJSON(data []byte) error {
	return accessTierTable.Unmarshal(data, tier)
}

type NameUnavailableReason int

const (
	NameUnavailableReasonNone NameUnavailableReason = iota
	NameUnavailableReasonAccountNameInvalid
	NameUnavailableReasonAlreadyExists

	NameUnavailableReasonDefault = NameUnavailableReasonNone
)

var nameUnavailableReasonTable = types.NewEnumTable("NameUnavailableReason", map[NameUnavailableReason]string{
	NameUnavailableReasonNone:               "None",
	NameUnavailableReasonAccountNameInvalid: "AccountNameInvalid",
	NameUnavailableReasonAlreadyExists:      "AlreadyExists",
})

func (reason NameUnavailableReason) String() string { return nameUnavailableReasonTable.String(reason) }
func (reason NameUnavailableReason) MarshalJSON() ([]byte, error) {
	return nameUnavailableReasonTable.Marshal(reason)
}
func (reason *NameUnavailableReason) UnmarshalJSON(data []byte) error {
	return nameUnavailableReasonTable.Unmarshal(data, reason)
}

type StorageAccount struct {
	types.AzureObjectBase
	Kind       Kind                      `json:"kind"`
	Sku        *types.Sku                `json:"sku,omitempty"`
	Identity   *types.ManagedIdentity    `json:"identity,omitempty"`
	Properties *StorageAccountProperties `json:"properties,omitempty"`
}

type StorageAccountProperties struct {
	AccessTier               *AccessTier             `json:"accessTier,omitempty"`
	SupportsHttpsTrafficOnly *bool                   `json:"supportsHttpsTrafficOnly,omitempty"`
	MinimumTlsVersion        string                  `json:"minimumTlsVersion,omitempty"`
	AllowBlobPublicAccess    *bool                   `json:"allowBlobPublicAccess,omitempty"`
	IsHnsEnabled             *bool                   `json:"isHnsEnabled,omitempty"`
	PrimaryLocation          string                  `json:"primaryLocation,omitempty"`
	StatusOfPrimary          string                  `json:"statusOfPrimary,omitempty"`
	PrimaryEndpoints         *Endpoints              `json:"primaryEndpoints,omitempty"`
	ProvisioningState        types.ProvisioningState `json:"provisioningState,omitempty"`
	CreationTime             *time.Time              `json:"creationTime,omitempty"`
}

type Endpoints struct {
	Blob  string `json:"blob,omitempty"`
	Queue string `json:"queue,omitempty"`
	Table string `json:"table,omitempty"`
	File  string `json:"file,omitempty"`
	Web   string `json:"web,omitempty"`
	Dfs   string `json:"dfs,omitempty"`
}

// NewStorageAccount is the request body for Create.
func NewStorageAccount(location string, kind Kind, skuName string) StorageAccount {
	httpsOnly := true
	return StorageAccount{
		AzureObjectBase: types.AzureObjectBase{Location: location},
		Kind:            kind,
		Sku:             &types.Sku{Name: skuName},
		Properties: &StorageAccountProperties{
			SupportsHttpsTrafficOnly: &httpsOnly,
			MinimumTlsVersion:        "TLS1_2",
		},
	}
}

type CheckNameAvailabilityRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type CheckNameAvailabilityResult struct {
	NameAvailable bool                  `json:"nameAvailable"`
	Reason        NameUnavailableReason `json:"reason,omitempty"`
	Message       string                `json:"message,omitempty"`
}

type AccountKey struct {
	KeyName      string     `json:"keyName"`
	Value        string     `json:"value"`
	Permissions  string     `json:"permissions,omitempty"`
	CreationTime *time.Time `json:"creationTime,omitempty"`
}

type accountKeys struct {
	Keys []AccountKey `json:"keys"`
}

type regenerateKeyRequest struct {
	KeyName string `json:"keyName"`
}

type Sku struct {
	Name         string   `json:"name"`
	Tier         string   `json:"tier,omitempty"`
	ResourceType string   `json:"resourceType,omitempty"`
	Kind         Kind     `json:"kind"`
	Locations    []string `json:"locations,omitempty"`
}
