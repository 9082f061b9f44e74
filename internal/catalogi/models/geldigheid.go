package models

import "time"

// Geldigheid is the validity interval of a type definition version, interpreted
// as the half-open interval [Begin, Einde). A nil Einde means open-ended.
type Geldigheid struct {
	Begin time.Time  `json:"beginGeldigheid"`
	Einde *time.Time `json:"eindeGeldigheid,omitempty"`
}

// Overlaps reports whether two validity intervals intersect. A nil end date is
// treated as +infinity: [s1,e1) and [s2,e2) overlap iff s1 < e2 and s2 < e1.
func (g Geldigheid) Overlaps(other Geldigheid) bool {
	if g.Einde != nil && !g.Einde.After(other.Begin) {
		return false
	}
	if other.Einde != nil && !other.Einde.After(g.Begin) {
		return false
	}
	return true
}
