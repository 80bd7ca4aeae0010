package model

import "time"

// Record types recognized in milpacs profiles. Every other type is ignored
// by extraction.
const (
	RecordTypeTransfer  = "RECORD_TYPE_TRANSFER"
	RecordTypeDischarge = "RECORD_TYPE_DISCHARGE"
)

// Record is a single raw service-record entry as delivered by the roster
// API, in arrival order.
type Record struct {
	Type    string `json:"recordType"`
	Date    string `json:"recordDate"` // YYYY-MM-DD
	Details string `json:"recordDetails"`
}

// User identifies the member a profile belongs to.
type User struct {
	ID       string `json:"userId"`
	Username string `json:"username"`
}

// Profile is one member's raw milpacs document.
type Profile struct {
	User    User     `json:"user"`
	Records []Record `json:"records"`
}

// MemberID returns the best available identifier for the profile.
func (p Profile) MemberID() string {
	if p.User.ID != "" {
		return p.User.ID
	}
	return p.User.Username
}

// EventKind classifies an extracted event.
type EventKind int

const (
	// Transfer moves the member to a new unit assignment.
	Transfer EventKind = iota
	// Discharge ends the member's service.
	Discharge
)

func (k EventKind) String() string {
	if k == Discharge {
		return "discharge"
	}
	return "transfer"
}

// Discharge reasons derived from the record details text.
const (
	ReasonRetired    = "retired"
	ReasonDischarged = "discharged"
)

// Event is a classified, date-ordered service event for one member.
// Unit is set only for transfers; DischargeReason only for discharges.
type Event struct {
	MemberID        string
	Date            time.Time
	Kind            EventKind
	Unit            UnitDesignator
	DischargeReason string
	RawText         string
}

// Movement is a single step of a member's movement timeline: the normalized
// unit label the member moved to, or a terminal "Retired"/"Discharged" state.
type Movement struct {
	Date  time.Time
	Label string
}
