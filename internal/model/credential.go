package model

// WoredaManager mirrors a row of `woreda_managers`.  Passwords are short
// numeric strings provisioned offline; a bcrypt hash is also accepted.
type WoredaManager struct {
	PhoneNumber string // woreda_managers.phone_number
	Password    string // woreda_managers.password
	ManagerName string // woreda_managers.manager_name
}

// WoredaRepresentative mirrors a row of the legacy `woreda_reps` table.
type WoredaRepresentative struct {
	PhoneNumber string // woreda_reps.phone_number
	Name        string // woreda_reps.name
}

// CredentialTableStatus is the diagnostic view of `woreda_managers`.
type CredentialTableStatus struct {
	TableExists bool   `json:"tableExists"`
	RecordCount int64  `json:"recordCount"`
	Message     string `json:"message"`
}
