// Package model contains domain models passed between layers.
package model

import "strings"

// BootCampBattalion is the literal category assigned to designators in the
// three-group numeric recruit format (e.g. "005/02/03"). The training
// pipeline is not an operational unit, so it gets its own battalion-level
// bucket instead of a field-wise parse.
const BootCampBattalion = "Boot Camp"

// UnitDesignator is the four-level organizational address attached to a
// membership. Empty fields mean the level could not be determined; unknown
// levels form their own bucket in the aggregates rather than being dropped.
type UnitDesignator struct {
	Squad     string
	Platoon   string
	Company   string
	Battalion string
}

// BootCamp returns the designator for the recruit training pipeline.
func BootCamp() UnitDesignator {
	return UnitDesignator{Battalion: BootCampBattalion}
}

// IsBootCamp reports whether the designator is the training-pipeline bucket.
func (u UnitDesignator) IsBootCamp() bool {
	return u.Battalion == BootCampBattalion
}

// IsZero reports whether no level of the designator is known.
func (u UnitDesignator) IsZero() bool {
	return u == UnitDesignator{}
}

// Key returns a stable map key for grouping by unit.
func (u UnitDesignator) Key() string {
	return u.Battalion + "|" + u.Company + "|" + u.Platoon + "|" + u.Squad
}

// Label renders the designator low-to-high ("squad/platoon/company/battalion")
// with unknown levels shown as "?". Boot Camp renders as its category name.
func (u UnitDesignator) Label() string {
	if u.IsBootCamp() {
		return BootCampBattalion
	}
	if u.IsZero() {
		return "Unknown"
	}
	parts := []string{u.Squad, u.Platoon, u.Company, u.Battalion}
	for i, p := range parts {
		if p == "" {
			parts[i] = "?"
		}
	}
	return strings.Join(parts, "/")
}

// Less orders designators by battalion, company, platoon, squad. Unknown
// (empty) levels sort before known ones so the unknown buckets lead each
// group, matching the fixed output order of the aggregate tables.
func (u UnitDesignator) Less(other UnitDesignator) bool {
	if u.Battalion != other.Battalion {
		return u.Battalion < other.Battalion
	}
	if u.Company != other.Company {
		return u.Company < other.Company
	}
	if u.Platoon != other.Platoon {
		return u.Platoon < other.Platoon
	}
	return u.Squad < other.Squad
}
