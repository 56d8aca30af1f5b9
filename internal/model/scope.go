package model

// Scope is the row visibility and write permission derived from a
// principal for one request.
//
// Exactly one row predicate applies:
//  AllRows                – no row restriction.
//  Regions / RegionFold   – region-locked; Regions holds the exact stored
//                           variants, RegionFold is used for a trimmed,
//                           case-insensitive match when no variant was found.
//  ManagerMobile          – rows reporting to this phone number.
type Scope struct {
	AllRows       bool
	RegionLocked  bool
	Regions       []string
	RegionFold    string
	ManagerMobile string
	CanWrite      bool
}

// ReadOnly is the complement of CanWrite.
func (s Scope) ReadOnly() bool { return !s.CanWrite }
