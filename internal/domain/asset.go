package domain

import "time"

// AssetStatus is the lifecycle state of an asset.
type AssetStatus string

const (
	StatusAvailable   AssetStatus = "available"
	StatusAssigned    AssetStatus = "assigned"
	StatusMaintenance AssetStatus = "maintenance"
	StatusRetired     AssetStatus = "retired"
)

// AssetCategory is the hardware class of an asset.
type AssetCategory string

const (
	CategoryLaptop  AssetCategory = "laptop"
	CategoryDesktop AssetCategory = "desktop"
	CategoryMonitor AssetCategory = "monitor"
	CategoryPrinter AssetCategory = "printer"
	CategoryMobile  AssetCategory = "mobile"
	CategoryTablet  AssetCategory = "tablet"
	CategoryOther   AssetCategory = "other"
)

var statusLabels = map[AssetStatus]string{
	StatusAvailable:   "Available",
	StatusAssigned:    "Assigned",
	StatusMaintenance: "Under Maintenance",
	StatusRetired:     "Retired",
}

var categoryLabels = map[AssetCategory]string{
	CategoryLaptop:  "Laptop",
	CategoryDesktop: "Desktop",
	CategoryMonitor: "Monitor",
	CategoryPrinter: "Printer",
	CategoryMobile:  "Mobile Phone",
	CategoryTablet:  "Tablet",
	CategoryOther:   "Other",
}

// ValidStatus reports whether s is one of the four lifecycle states.
func ValidStatus(s AssetStatus) bool {
	_, ok := statusLabels[s]
	return ok
}

// ValidCategory reports whether c is a known hardware class.
func ValidCategory(c AssetCategory) bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human-readable form of the status.
func (s AssetStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Label returns the human-readable form of the category.
func (c AssetCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// Asset is a tracked piece of hardware. SerialNumber is globally unique and
// immutable after creation.
type Asset struct {
	ID             int64
	SerialNumber   string
	DisplayName    string
	Department     string
	ModelCategory  AssetCategory
	Status         AssetStatus
	Company        string
	AssignedUserID *int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
