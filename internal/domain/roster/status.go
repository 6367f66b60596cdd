package roster

// LicenseStatus is the categorical outcome of registry reconciliation
type LicenseStatus string

const (
	// LicenseValid means the registry join succeeded and the matched
	// entry has not expired
	LicenseValid LicenseStatus = "valid"
	// LicenseExpired means the registry join succeeded but the matched
	// entry's expiration date is in the past
	LicenseExpired LicenseStatus = "expired"
	// LicenseUnknown means no reference registry exists for the record's
	// license state; never silently treated as valid
	LicenseUnknown LicenseStatus = "unknown"
	// LicenseNotFound means a registry exists but produced no validated
	// match for the record
	LicenseNotFound LicenseStatus = "not_found"
)

// IsValid checks the status is one of the closed set
func (s LicenseStatus) IsValid() bool {
	switch s {
	case LicenseValid, LicenseExpired, LicenseUnknown, LicenseNotFound:
		return true
	}
	return false
}

func (s LicenseStatus) String() string {
	return string(s)
}
