package dto

// ImportRowError describes why one CSV row was not imported
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport summarizes a CSV import batch. Every row is accounted for
// exactly once across the three buckets.
type ImportReport struct {
	TotalRows  int              `json:"totalRows"`
	Imported   int              `json:"imported"`
	Duplicates []string         `json:"duplicates"`
	Errors     []ImportRowError `json:"errors"`
}

// StatsResponse carries derived dashboard counters
type StatsResponse struct {
	TotalStudents    int64            `json:"totalStudents"`
	Hired            int64            `json:"hired"`
	OpenToRelocation int64            `json:"openToRelocation"`
	AllApproved      int64            `json:"allApproved"`
	BySection        map[string]int64 `json:"bySection"`
	ByProgram        map[string]int64 `json:"byProgram"`
}

// AvatarMigrationReport summarizes an inline-avatar migration run
type AvatarMigrationReport struct {
	Scanned  int              `json:"scanned"`
	Migrated int              `json:"migrated"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}
