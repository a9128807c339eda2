package appservice

import (
	"time"

	"github.com/sujayvsarma/armclient/types"
)

type CertificateOrderStatus int

const (
	CertificateOrderStatusNotSubmitted CertificateOrderStatus = iota
	CertificateOrderStatusPendingIssuance
	CertificateOrderStatusIssued
	CertificateOrderStatusRevoked
	CertificateOrderStatusCanceled
	CertificateOrderStatusDenied
	CertificateOrderStatusPendingRevocation
	CertificateOrderStatusPendingRekey
	CertificateOrderStatusUnused
	CertificateOrderStatusExpired
	CertificateOrderStatusUnknown

	CertificateOrderStatusDefault = CertificateOrderStatusNotSubmitted
)

var certificateOrderStatusTable = types.NewEnumTable("CertificateOrderStatus", map[CertificateOrderStatus]string{
	CertificateOrderStatusNotSubmitted:      "NotSubmitted",
	CertificateOrderStatusPendingIssuance:   "Pendingissuance",
	CertificateOrderStatusIssued:            "Issued",
	CertificateOrderStatusRevoked:           "Revoked",
	CertificateOrderStatusCanceled:          "Canceled",
	CertificateOrderStatusDenied:            "Denied",
	CertificateOrderStatusPendingRevocation: "Pendingrevocation",
	CertificateOrderStatusPendingRekey:      "PendingRekey",
	CertificateOrderStatusUnused:            "Unused",
	CertificateOrderStatusExpired:           "Expired",
	CertificateOrderStatusUnknown:           "Unknown",
}).WithFallback(CertificateOrderStatusUnknown)

func (status CertificateOrderStatus) String() string {
	return certificateOrderStatusTable.String(status)
}

func (status CertificateOrderStatus) MarshalJSON() ([]byte, error) {
	return certificateOrderStatusTable.Marshal(status)
}

func (status *CertificateOrderStatus) UnmarshalJSON(data []byte) error {
	return certificateOrderStatusTable.Unmarshal(data, status)
}

type CertificateProductType int

const (
	CertificateProductTypeStandardDomainValidatedSsl CertificateProductType = iota
	CertificateProductTypeStandardDomainValidatedWildCardSsl

	CertificateProductTypeDefault = CertificateProductTypeStandardDomainValidatedSsl
)

var certificateProductTypeTable = types.NewEnumTable("CertificateProductType", map[CertificateProductType]string{
	CertificateProductTypeStandardDomainValidatedSsl:         "StandardDomainValidatedSsl",
	CertificateProductTypeStandardDomainValidatedWildCardSsl: "StandardDomainValidatedWildCardSsl",
})

func (productType CertificateProductType) String() string {
	return certificateProductTypeTable.String(productType)
}

func (productType CertificateProductType) MarshalJSON() ([]byte, error) {
	return certificateProductTypeTable.Marshal(productType)
}

func (productType *CertificateProductType) UnmarshalJSON(data []byte) error {
	return certificateProductTypeTable.Unmarshal(data, productType)
}

// DomainStatus is the registration state reported by the registrar.
type DomainStatus int

const (
	DomainStatusUnknown DomainStatus = iota
	DomainStatusActive
	DomainStatusAwaiting
	DomainStatusCancelled
	DomainStatusConfiscated
	DomainStatusDisabled
	DomainStatusExcluded
	DomainStatusExpired
	DomainStatusFailed
	DomainStatusHeld
	DomainStatusLocked
	DomainStatusParked
	DomainStatusPending
	DomainStatusReserved
	DomainStatusReverted
	DomainStatusSuspended
	DomainStatusTransferred
	DomainStatusUnlocked
	DomainStatusUnparked
	DomainStatusUpdated
	DomainStatusJsonConverterFailed

	DomainStatusDefault = DomainStatusUnknown
)

var domainStatusTable = types.NewEnumTable("DomainStatus", map[DomainStatus]string{
	DomainStatusUnknown:             "Unknown",
	DomainStatusActive:              "Active",
	DomainStatusAwaiting:            "Awaiting",
	DomainStatusCancelled:           "Cancelled",
	DomainStatusConfiscated:         "Confiscated",
	DomainStatusDisabled:            "Disabled",
	DomainStatusExcluded:            "Excluded",
	DomainStatusExpired:             "Expired",
	DomainStatusFailed:              "Failed",
	DomainStatusHeld:                "Held",
	DomainStatusLocked:              "Locked",
	DomainStatusParked:              "Parked",
	DomainStatusPending:             "Pending",
	DomainStatusReserved:            "Reserved",
	DomainStatusReverted:            "Reverted",
	DomainStatusSuspended:           "Suspended",
	DomainStatusTransferred:         "Transferred",
	DomainStatusUnlocked:            "Unlocked",
	DomainStatusUnparked:            "Unparked",
	DomainStatusUpdated:             "Updated",
	DomainStatusJsonConverterFailed: "JsonConverterFailed",
}).WithFallback(DomainStatusUnknown)

func (status DomainStatus) String() string {
	return domainStatusTable.String(status)
}

func (status DomainStatus) MarshalJSON() ([]byte, error) {
	return domainStatusTable.Marshal(status)
}

func (status *DomainStatus) UnmarshalJSON(data []byte) error {
	return domainStatusTable.Unmarshal(data, status)
}

type DomainType int

const (
	DomainTypeRegular DomainType = iota
	DomainTypeSoftDeleted

	DomainTypeDefault = DomainTypeRegular
)

var domainTypeTable = types.NewEnumTable("DomainType", map[DomainType]string{
	DomainTypeRegular:     "Regular",
	DomainTypeSoftDeleted: "SoftDeleted",
})

func (domainType DomainType) String() string {
	return domainTypeTable.String(domainType)
}

func (domainType DomainType) MarshalJSON() ([]byte, error) {
	return domainTypeTable.Marshal(domainType)
}

func (domainType *DomainType) UnmarshalJSON(data []byte) error {
	return domainTypeTable.Unmarshal(data, domainType)
}

// SiteState is the run state of a web app.
type SiteState int

const (
	SiteStateRunning SiteState = iota
	SiteStateStopped
	SiteStateUnknown

	SiteStateDefault = SiteStateRunning
)

var siteStateTable = types.NewEnumTable("SiteState", map[SiteState]string{
	SiteStateRunning: "Running",
	SiteStateStopped: "Stopped",
	SiteStateUnknown: "Unknown",
}).WithFallback(SiteStateUnknown)

func (state SiteState) String() string {
	return siteStateTable.String(state)
}

func (state SiteState) MarshalJSON() ([]byte, error) {
	return siteStateTable.Marshal(state)
}

func (state *SiteState) UnmarshalJSON(data []byte) error {
	return siteStateTable.Unmarshal(data, state)
}

type ServerFarmStatus int

const (
	ServerFarmStatusReady ServerFarmStatus = iota
	ServerFarmStatusPending
	ServerFarmStatusCreating
	ServerFarmStatusUnknown

	ServerFarmStatusDefault = ServerFarmStatusReady
)

var serverFarmStatusTable = types.NewEnumTable("ServerFarmStatus", map[ServerFarmStatus]string{
	ServerFarmStatusReady:    "Ready",
	ServerFarmStatusPending:  "Pending",
	ServerFarmStatusCreating: "Creating",
	ServerFarmStatusUnknown:  "Unknown",
}).WithFallback(ServerFarmStatusUnknown)

func (status ServerFarmStatus) String() string {
	return serverFarmStatusTable.String(status)
}

func (status ServerFarmStatus) MarshalJSON() ([]byte, error) {
	return serverFarmStatusTable.Marshal(status)
}

func (status *ServerFarmStatus) UnmarshalJSON(data []byte) error {
	return serverFarmStatusTable.Unmarshal(data, status)
}

// Contact is a registrant, admin, billing or technical contact of a domain.
type Contact struct {
	NameFirst      string          `json:"nameFirst"`
	NameMiddle     string          `json:"nameMiddle,omitempty"`
	NameLast       string          `json:"nameLast"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Fax            string          `json:"fax,omitempty"`
	JobTitle       string          `json:"jobTitle,omitempty"`
	Organization   string          `json:"organization,omitempty"`
	AddressMailing *ContactAddress `json:"addressMailing,omitempty"`
}

type ContactAddress struct {
	Address1   string `json:"address1"`
	Address2   string `json:"address2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

// DomainPurchaseConsent records acceptance of the registrar's legal agreements.
type DomainPurchaseConsent struct {
	AgreementKeys []string   `json:"agreementKeys,omitempty"`
	AgreedBy      string     `json:"agreedBy,omitempty"`
	AgreedAt      *time.Time `json:"agreedAt,omitempty"`
}

type Domain struct {
	types.AzureObjectBase
	Kind       string            `json:"kind,omitempty"`
	Properties *DomainProperties `json:"properties,omitempty"`
}

type DomainProperties struct {
	ContactAdmin                *Contact                `json:"contactAdmin,omitempty"`
	ContactBilling              *Contact                `json:"contactBilling,omitempty"`
	ContactRegistrant           *Contact                `json:"contactRegistrant,omitempty"`
	ContactTech                 *Contact                `json:"contactTech,omitempty"`
	RegistrationStatus          *DomainStatus           `json:"registrationStatus,omitempty"`
	ProvisioningState           types.ProvisioningState `json:"provisioningState,omitempty"`
	NameServers                 []string                `json:"nameServers,omitempty"`
	Privacy                     *bool                   `json:"privacy,omitempty"`
	CreatedTime                 *time.Time              `json:"createdTime,omitempty"`
	ExpirationTime              *time.Time              `json:"expirationTime,omitempty"`
	AutoRenew                   *bool                   `json:"autoRenew,omitempty"`
	ReadyForDnsRecordManagement *bool                   `json:"readyForDnsRecordManagement,omitempty"`
	Consent                     *DomainPurchaseConsent  `json:"consent,omitempty"`
	DnsType                     string                  `json:"dnsType,omitempty"`
}

type NameIdentifier struct {
	Name string `json:"name"`
}

type DomainAvailabilityCheckResult struct {
	Name       string     `json:"name"`
	Available  bool       `json:"available"`
	DomainType DomainType `json:"domainType"`
}

type TopLevelDomain struct {
	types.AzureObjectBase
	Properties *TopLevelDomainProperties `json:"properties,omitempty"`
}

type TopLevelDomainProperties struct {
	Privacy *bool `json:"privacy,omitempty"`
}

type TopLevelDomainAgreementOption struct {
	IncludePrivacy bool `json:"includePrivacy"`
	ForTransfer    bool `json:"forTransfer"`
}

type TopLevelDomainAgreement struct {
	AgreementKey string `json:"agreementKey"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Url          string `json:"url,omitempty"`
}

type CertificateOrder struct {
	types.AzureObjectBase
	Kind       string                      `json:"kind,omitempty"`
	Properties *CertificateOrderProperties `json:"properties,omitempty"`
}

type CertificateOrderProperties struct {
	ProductType             CertificateProductType  `json:"productType"`
	DistinguishedName       string                  `json:"distinguishedName,omitempty"`
	ValidityInYears         int                     `json:"validityInYears,omitempty"`
	KeySize                 int                     `json:"keySize,omitempty"`
	AutoRenew               *bool                   `json:"autoRenew,omitempty"`
	Status                  CertificateOrderStatus  `json:"status"`
	ProvisioningState       types.ProvisioningState `json:"provisioningState,omitempty"`
	SerialNumber            string                  `json:"serialNumber,omitempty"`
	DomainVerificationToken string                  `json:"domainVerificationToken,omitempty"`
	ExpirationTime          *time.Time              `json:"expirationTime,omitempty"`
	LastCertificateIssuance *time.Time              `json:"lastCertificateIssuanceTime,omitempty"`
}

// NewCertificateOrder is the request body for a one year order.
func NewCertificateOrder(distinguishedName string, productType CertificateProductType) CertificateOrder {
	autoRenew := true
	return CertificateOrder{
		AzureObjectBase: types.AzureObjectBase{Location: "global"},
		Properties: &CertificateOrderProperties{
			ProductType:       productType,
			DistinguishedName: distinguishedName,
			ValidityInYears:   1,
			KeySize:           2048,
			AutoRenew:         &autoRenew,
		},
	}
}

type RenewCertificateOrderRequest struct {
	KeySize              int    `json:"keySize,omitempty"`
	Csr                  string `json:"csr,omitempty"`
	IsPrivateKeyExternal bool   `json:"isPrivateKeyExternal"`
}

// ServerFarm is an App Service plan.
type ServerFarm struct {
	types.AzureObjectBase
	Kind       string                `json:"kind,omitempty"`
	Sku        *types.Sku            `json:"sku,omitempty"`
	Properties *ServerFarmProperties `json:"properties,omitempty"`
}

type ServerFarmProperties struct {
	Status                 *ServerFarmStatus       `json:"status,omitempty"`
	NumberOfSites          int                     `json:"numberOfSites,omitempty"`
	MaximumNumberOfWorkers int                     `json:"maximumNumberOfWorkers,omitempty"`
	PerSiteScaling         *bool                   `json:"perSiteScaling,omitempty"`
	Reserved               *bool                   `json:"reserved,omitempty"`
	ZoneRedundant          *bool                   `json:"zoneRedundant,omitempty"`
	ProvisioningState      types.ProvisioningState `json:"provisioningState,omitempty"`
}

type Site struct {
	types.AzureObjectBase
	Kind       string                 `json:"kind,omitempty"`
	Identity   *types.ManagedIdentity `json:"identity,omitempty"`
	Properties *SiteProperties        `json:"properties,omitempty"`
}

type SiteProperties struct {
	State             *SiteState  `json:"state,omitempty"`
	Enabled           *bool       `json:"enabled,omitempty"`
	HostNames         []string    `json:"hostNames,omitempty"`
	DefaultHostName   string      `json:"defaultHostName,omitempty"`
	ServerFarmId      string      `json:"serverFarmId,omitempty"`
	HttpsOnly         *bool       `json:"httpsOnly,omitempty"`
	AvailabilityState string      `json:"availabilityState,omitempty"`
	UsageState        string      `json:"usageState,omitempty"`
	SiteConfig        *SiteConfig `json:"siteConfig,omitempty"`
}

type SiteConfig struct {
	LinuxFxVersion string `json:"linuxFxVersion,omitempty"`
	AlwaysOn       *bool  `json:"alwaysOn,omitempty"`
	MinTlsVersion  string `json:"minTlsVersion,omitempty"`
	FtpsState      string `json:"ftpsState,omitempty"`
	Http20Enabled  *bool  `json:"http20Enabled,omitempty"`
}
