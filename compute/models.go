package compute

import (
	"strings"
	"time"

	"github.com/sujayvsarma/armclient/types"
)

type OperatingSystemType int

const (
	OperatingSystemTypeWindows OperatingSystemType = iota
	OperatingSystemTypeLinux

	OperatingSystemTypeDefault = OperatingSystemTypeWindows
)

var operatingSystemTypeTable = types.NewEnumTable("OperatingSystemType", map[OperatingSystemType]string{
	OperatingSystemTypeWindows: "Windows",
	OperatingSystemTypeLinux:   "Linux",
})

func (osType OperatingSystemType) String() string { return operatingSystemTypeTable.String(osType) }
func (osType OperatingSystemType) MarshalJSON() ([]byte, error) {
	return operatingSystemTypeTable.Marshal(osType)
}
func (osType *OperatingSystemType) UnmarshalJSON(data []byte) error {
	return operatingSystemTypeTable.Unmarshal(data, osType)
}

type DiskCreateOption int

const (
	DiskCreateOptionEmpty DiskCreateOption = iota
	DiskCreateOptionFromImage
	DiskCreateOptionAttach
	DiskCreateOptionCopy
	DiskCreateOptionImport
	DiskCreateOptionRestore
	DiskCreateOptionUpload
	DiskCreateOptionCopyStart
	DiskCreateOptionImportSecure
	DiskCreateOptionUploadPreparedSecure
	DiskCreateOptionCopyFromSanSnapshot
	DiskCreateOptionUnknown

	DiskCreateOptionDefault = DiskCreateOptionEmpty
)

var diskCreateOptionTable = types.NewEnumTable("DiskCreateOption", map[DiskCreateOption]string{
	DiskCreateOptionEmpty:                "Empty",
	DiskCreateOptionFromImage:            "FromImage",
	DiskCreateOptionAttach:               "Attach",
	DiskCreateOptionCopy:                 "Copy",
	DiskCreateOptionImport:               "Import",
	DiskCreateOptionRestore:              "Restore",
	DiskCreateOptionUpload:               "Upload",
	DiskCreateOptionCopyStart:            "CopyStart",
	DiskCreateOptionImportSecure:         "ImportSecure",
	DiskCreateOptionUploadPreparedSecure: "UploadPreparedSecure",
	DiskCreateOptionCopyFromSanSnapshot:  "CopyFromSanSnapshot",
	DiskCreateOptionUnknown:              "Unknown",
}).WithFallback(DiskCreateOptionUnknown)

func (option DiskCreateOption) String() string { return diskCreateOptionTable.String(option) }
func (option DiskCreateOption) MarshalJSON() ([]byte, error) {
	return diskCreateOptionTable.Marshal(option)
}
func (option *DiskCreateOption) UnmarshalJSON(data []byte) error {
	return diskCreateOptionTable.Unmarshal(data, option)
}

type CachingType int

const (
	CachingTypeNone CachingType = iota
	CachingTypeReadOnly
	CachingTypeReadWrite

	CachingTypeDefault = CachingTypeNone
)

var cachingTypeTable = types.NewEnumTable("CachingType", map[CachingType]string{
	CachingTypeNone:      "None",
	CachingTypeReadOnly:  "ReadOnly",
	CachingTypeReadWrite: "ReadWrite",
})

func (caching CachingType) String() string { return cachingTypeTable.String(caching) }
func (caching CachingType) MarshalJSON() ([]byte, error) {
	return cachingTypeTable.Marshal(caching)
}
func (caching *CachingType) UnmarshalJSON(data []byte) error {
	return cachingTypeTable.Unmarshal(data, caching)
}

type DiskState int

const (
	DiskStateUnattached DiskState = iota
	DiskStateAttached
	DiskStateReserved
	DiskStateActiveSAS
	DiskStateReadyToUpload
	DiskStateActiveUpload
	DiskStateFrozen
	DiskStateActiveSASFrozen
	DiskStateUnknown

	DiskStateDefault = DiskStateUnattached
)

var diskStateTable = types.NewEnumTable("DiskState", map[DiskState]string{
	DiskStateUnattached:      "Unattached",
	DiskStateAttached:        "Attached",
	DiskStateReserved:        "Reserved",
	DiskStateActiveSAS:       "ActiveSAS",
	DiskStateReadyToUpload:   "ReadyToUpload",
	DiskStateActiveUpload:    "ActiveUpload",
	DiskStateFrozen:          "Frozen",
	DiskStateActiveSASFrozen: "ActiveSASFrozen",
	DiskStateUnknown:         "Unknown",
}).WithFallback(DiskStateUnknown)

func (state DiskState) String() string { return diskStateTable.String(state) }
func (state DiskState) MarshalJSON() ([]byte, error) {
	return diskStateTable.Marshal(state)
}
func (state *DiskState) UnmarshalJSON(data []byte) error {
	return diskStateTable.Unmarshal(data, state)
}

type AccessLevel int

const (
	AccessLevelNone AccessLevel = iota
	AccessLevelRead
	AccessLevelWrite

	AccessLevelDefault = AccessLevelNone
)

var accessLevelTable = types.NewEnumTable("AccessLevel", map[AccessLevel]string{
	AccessLevelNone:  "None",
	AccessLevelRead:  "Read",
	AccessLevelWrite: "Write",
})

func (level AccessLevel) String() string { return accessLevelTable.String(level) }
func (level AccessLevel) MarshalJSON() ([]byte, error) {
	return accessLevelTable.Marshal(level)
}
func (level *AccessLevel) UnmarshalJSON(data []byte) error {
	return accessLevelTable.Unmarshal(data, level)
}

type PowerState int

const (
	PowerStateUnknown PowerState = iota
	PowerStateStarting
	PowerStateRunning
	PowerStateStopping
	PowerStateStopped
	PowerStateDeallocating
	PowerStateDeallocated

	PowerStateDefault = PowerStateUnknown
)

var powerStateTable = types.NewEnumTable("PowerState", map[PowerState]string{
	PowerStateUnknown:      "unknown",
	PowerStateStarting:     "starting",
	PowerStateRunning:      "running",
	PowerStateStopping:     "stopping",
	PowerStateStopped:      "stopped",
	PowerStateDeallocating: "deallocating",
	PowerStateDeallocated:  "deallocated",
})

func (state PowerState) String() string { return powerStateTable.String(state) }

type VirtualMachine struct {
	types.AzureObjectBase
	Plan       *types.Plan               `json:"plan,omitempty"`
	Identity   *types.ManagedIdentity    `json:"identity,omitempty"`
	Zones      []string                  `json:"zones,omitempty"`
	Properties *VirtualMachineProperties `json:"properties,omitempty"`
}

type VirtualMachineProperties struct {
	VmId              string                      `json:"vmId,omitempty"`
	HardwareProfile   *HardwareProfile            `json:"hardwareProfile,omitempty"`
	StorageProfile    *StorageProfile             `json:"storageProfile,omitempty"`
	OsProfile         *OsProfile                  `json:"osProfile,omitempty"`
	NetworkProfile    *NetworkProfile             `json:"networkProfile,omitempty"`
	AvailabilitySet   *types.SubResource          `json:"availabilitySet,omitempty"`
	LicenseType       string                      `json:"licenseType,omitempty"`
	ProvisioningState types.ProvisioningState     `json:"provisioningState,omitempty"`
	InstanceView      *VirtualMachineInstanceView `json:"instanceView,omitempty"`
	TimeCreated       *time.Time                  `json:"timeCreated,omitempty"`
}

type HardwareProfile struct {
	VmSize string `json:"vmSize,omitempty"`
}

type StorageProfile struct {
	ImageReference *ImageReference `json:"imageReference,omitempty"`
	OsDisk         *OsDisk         `json:"osDisk,omitempty"`
	DataDisks      []DataDisk      `json:"dataDisks,omitempty"`
}

// ImageReference selects a marketplace image by publisher/offer/sku/version, or a custom image by Id.
type ImageReference struct {
	ResourceId string `json:"id,omitempty"`
	Publisher  string `json:"publisher,omitempty"`
	Offer      string `json:"offer,omitempty"`
	Sku        string `json:"sku,omitempty"`
	Version    string `json:"version,omitempty"`
}

type ManagedDiskParameters struct {
	ResourceId         string `json:"id,omitempty"`
	StorageAccountType string `json:"storageAccountType,omitempty"`
}

type OsDisk struct {
	Name         string                 `json:"name,omitempty"`
	OsType       *OperatingSystemType   `json:"osType,omitempty"`
	Caching      CachingType            `json:"caching"`
	CreateOption DiskCreateOption       `json:"createOption"`
	DiskSizeGB   int                    `json:"diskSizeGB,omitempty"`
	ManagedDisk  *ManagedDiskParameters `json:"managedDisk,omitempty"`
}

type DataDisk struct {
	Lun          int                    `json:"lun"`
	Name         string                 `json:"name,omitempty"`
	Caching      CachingType            `json:"caching"`
	CreateOption DiskCreateOption       `json:"createOption"`
	DiskSizeGB   int                    `json:"diskSizeGB,omitempty"`
	ManagedDisk  *ManagedDiskParameters `json:"managedDisk,omitempty"`
}

type OsProfile struct {
	ComputerName  string `json:"computerName,omitempty"`
	AdminUsername string `json:"adminUsername,omitempty"`
	AdminPassword string `json:"adminPassword,omitempty"`
	CustomData    string `json:"customData,omitempty"`
}

type NetworkProfile struct {
	NetworkInterfaces []NetworkInterfaceReference `json:"networkInterfaces,omitempty"`
}

type NetworkInterfaceReference struct {
	ResourceId string                               `json:"id,omitempty"`
	Properties *NetworkInterfaceReferenceProperties `json:"properties,omitempty"`
}

type NetworkInterfaceReferenceProperties struct {
	Primary bool `json:"primary"`
}

type VirtualMachineInstanceView struct {
	ComputerName string               `json:"computerName,omitempty"`
	OsName       string               `json:"osName,omitempty"`
	OsVersion    string               `json:"osVersion,omitempty"`
	Statuses     []InstanceViewStatus `json:"statuses,omitempty"`
}

type InstanceViewStatus struct {
	Code          string     `json:"code,omitempty"`
	Level         string     `json:"level,omitempty"`
	DisplayStatus string     `json:"displayStatus,omitempty"`
	Message       string     `json:"message,omitempty"`
	Time          *time.Time `json:"time,omitempty"`
}

// PowerState reads the PowerState/* status code.
func (view VirtualMachineInstanceView) PowerState() PowerState {
	for _, status := range view.Statuses {
		state, found := strings.CutPrefix(status.Code, "PowerState/")
		if !found {
			continue
		}
		if parsed, err := powerStateTable.Parse(state); err == nil {
			return parsed
		}
	}
	return PowerStateUnknown
}

type Disk struct {
	types.AzureObjectBase
	ManagedBy  string          `json:"managedBy,omitempty"`
	Sku        *types.Sku      `json:"sku,omitempty"`
	Zones      []string        `json:"zones,omitempty"`
	Properties *DiskProperties `json:"properties,omitempty"`
}

type DiskProperties struct {
	OsType            *OperatingSystemType    `json:"osType,omitempty"`
	CreationData      CreationData            `json:"creationData"`
	DiskSizeGB        int                     `json:"diskSizeGB,omitempty"`
	DiskState         DiskState               `json:"diskState,omitempty"`
	ProvisioningState types.ProvisioningState `json:"provisioningState,omitempty"`
	TimeCreated       *time.Time              `json:"timeCreated,omitempty"`
	UniqueId          string                  `json:"uniqueId,omitempty"`
}

type CreationData struct {
	CreateOption     DiskCreateOption `json:"createOption"`
	SourceResourceId string           `json:"sourceResourceId,omitempty"`
	SourceUri        string           `json:"sourceUri,omitempty"`
	ImageReference   *ImageReference  `json:"imageReference,omitempty"`
	UploadSizeBytes  int64            `json:"uploadSizeBytes,omitempty"`
}

// NewEmptyDisk is the request body for a blank managed disk.
func NewEmptyDisk(location string, sizeGB int, skuName string) Disk {
	return Disk{
		AzureObjectBase: types.AzureObjectBase{Location: location},
		Sku:             &types.Sku{Name: skuName},
		Properties: &DiskProperties{
			CreationData: CreationData{CreateOption: DiskCreateOptionEmpty},
			DiskSizeGB:   sizeGB,
		},
	}
}

type GrantAccessData struct {
	Access            AccessLevel `json:"access"`
	DurationInSeconds int         `json:"durationInSeconds"`
}

type AccessUri struct {
	AccessSAS string `json:"accessSAS,omitempty"`
}

type AvailabilitySet struct {
	types.AzureObjectBase
	Sku        *types.Sku                 `json:"sku,omitempty"`
	Properties *AvailabilitySetProperties `json:"properties,omitempty"`
}

type AvailabilitySetProperties struct {
	PlatformUpdateDomainCount int                 `json:"platformUpdateDomainCount,omitempty"`
	PlatformFaultDomainCount  int                 `json:"platformFaultDomainCount,omitempty"`
	VirtualMachines           []types.SubResource `json:"virtualMachines,omitempty"`
	ProximityPlacementGroup   *types.SubResource  `json:"proximityPlacementGroup,omitempty"`
}
