// Package types holds the read shapes shared by the repository and the
// HTTP API.
package types

// StrengthEntry mirrors one row of the daily strength table.
type StrengthEntry struct {
	Date      string `json:"date"`
	Battalion string `json:"battalion"`
	Company   string `json:"company"`
	Platoon   string `json:"platoon"`
	Squad     string `json:"squad"`
	Strength  int    `json:"strength"`
}

// RetentionEntry mirrors one row of the cohort retention table. Retention
// maps "30", "90", ... to percentages in [0,100].
type RetentionEntry struct {
	Cohort       string             `json:"cohort"`
	Battalion    string             `json:"battalion"`
	Company      string             `json:"company"`
	Platoon      string             `json:"platoon"`
	Squad        string             `json:"squad"`
	TotalMembers int                `json:"total_members"`
	Retention    map[string]float64 `json:"retention"`
}

// MovementEntry is one step of a member's movement timeline.
type MovementEntry struct {
	Date  string `json:"date"`
	Label string `json:"label"`
}

// RunSummary describes the outcome of one analysis run.
type RunSummary struct {
	RunID          string `json:"run_id"`
	AsOf           string `json:"as_of"`
	StartedAt      string `json:"started_at"`
	FinishedAt     string `json:"finished_at"`
	Documents      int    `json:"documents"`
	Members        int    `json:"members"`
	Memberships    int    `json:"memberships"`
	SkippedRecords int    `json:"skipped_records"`
	UnknownUnits   int    `json:"unknown_unit_intervals"`
	FetchFailures  int    `json:"fetch_failures"`
	StrengthRows   int    `json:"strength_rows"`
	RetentionRows  int    `json:"retention_rows"`
	Empty          bool   `json:"empty"` // true when the population yielded no memberships
}
