package record

// ContributorCount is the contributor info attached to a Record.
//
// Invariant: when Estimated is true, Count is an approximate/lower bound
// produced by extrapolation, not an exact enumeration.
type ContributorCount struct {
	Count     int  `json:"count"`
	Estimated bool `json:"estimated"`
}
