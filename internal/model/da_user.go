package model

import "time"

// DA status values.  StatusPending only exists in legacy data sets.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusPending  = "Pending"
)

// DAUser is one Development Agent row of the `da_users` table.  The
// contact number is the identity and the only mutation key.
type DAUser struct {
	Name                   string     `json:"name"`
	Region                 string     `json:"region"`
	Zone                   string     `json:"zone"`
	Woreda                 string     `json:"woreda"`
	Kebele                 string     `json:"kebele"`
	ContactNumber          string     `json:"contact_number"`
	ReportingManagerName   string     `json:"reporting_manager_name"`
	ReportingManagerMobile string     `json:"reporting_manager_mobile"`
	Language               string     `json:"language"`
	TotalDataCollected     int64      `json:"total_data_collected"`
	Status                 string     `json:"status"`
	LastUpdated            *time.Time `json:"last_updated,omitempty"`
}

// DAUpdate is an authorized field-level change to one DA.  Nil fields are
// left untouched; last_updated is always stamped.  A non-empty
// ManagerMobile restricts the write to DAs reporting to that phone.
type DAUpdate struct {
	ContactNumber      string
	ManagerMobile      string
	Status             *string
	TotalDataCollected *int64
}

// DAFilterOptions lists the distinct values available to the cascading
// region → zone → woreda → kebele filter within a scope.
type DAFilterOptions struct {
	Regions []string `json:"regions"`
	Zones   []string `json:"zones"`
	Woredas []string `json:"woredas"`
	Kebeles []string `json:"kebeles"`
}
