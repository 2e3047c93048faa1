package roster

import (
	"testing"
	"time"

	"github.com/mbaylon/interntrack/internal/app/models"
)

var requiredDocs = []string{"Resume", "Endorsement Letter"}

func sampleStudents() []models.Student {
	base := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	return []models.Student{
		{
			ID: 1, StudentNo: "2021-0001", FirstName: "Ana", LastName: "Reyes",
			Program: "BS Information Technology", Section: "IT-4A",
			Email: "ana.reyes@school.edu.ph", ContactNumber: "09170000001",
			Hired: true, OpenToRelocation: true,
			Requirements: []models.Requirement{
				{Name: "Resume", Status: models.StatusAccepted},
				{Name: "Endorsement Letter", Status: models.StatusAccepted},
			},
			CreatedAt: base,
		},
		{
			ID: 2, StudentNo: "2021-0002", FirstName: "Ben", LastName: "Cruz",
			Program: "BS Computer Science", Section: "CS-4B",
			Email: "ben.cruz@school.edu.ph", ContactNumber: "09170000002",
			Hired: false, OpenToRelocation: false,
			Requirements: []models.Requirement{
				{Name: "Resume", Status: models.StatusPending},
			},
			CreatedAt: base.Add(time.Hour),
		},
		{
			ID: 3, StudentNo: "2021-0003", FirstName: "Carla", LastName: "Reyes",
			Program: "BS Information Technology", Section: "IT-4B",
			Email: "carla.reyes@school.edu.ph", ContactNumber: "09170000003",
			Hired: true, OpenToRelocation: false,
			Requirements: []models.Requirement{
				{Name: "Resume", Status: models.StatusAccepted},
				{Name: "Endorsement Letter", Status: models.StatusDenied},
			},
			CreatedAt: base.Add(2 * time.Hour),
		},
		{
			ID: 4, StudentNo: "2021-0004", FirstName: "Dan", LastName: "Reyes",
			Program: "BS Information Technology", Section: "IT-4A",
			Email: "dan.reyes@school.edu.ph", ContactNumber: "09998887777",
			Hired: false, OpenToRelocation: true,
			Requirements: []models.Requirement{
				{Name: "Resume", Status: models.StatusAccepted},
				{Name: "Endorsement Letter", Status: models.StatusAccepted},
			},
			CreatedAt: base.Add(3 * time.Hour),
		},
	}
}

func ids(students []models.Student) []int64 {
	out := make([]int64, len(students))
	for i, s := range students {
		out[i] = s.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter(t *testing.T) {
	hired := true
	notHired := false
	reloc := true

	tests := []struct {
		name    string
		filters Filters
		want    []int64
	}{
		{name: "no filters", filters: Filters{}, want: []int64{1, 2, 3, 4}},
		{name: "search name", filters: Filters{Search: "reyes"}, want: []int64{1, 3, 4}},
		{name: "search program", filters: Filters{Search: "computer science"}, want: []int64{2}},
		{name: "search email", filters: Filters{Search: "carla.reyes@"}, want: []int64{3}},
		{name: "search contact", filters: Filters{Search: "0999888"}, want: []int64{4}},
		{name: "search no match", filters: Filters{Search: "zzz"}, want: []int64{}},
		{name: "hired", filters: Filters{Hired: &hired}, want: []int64{1, 3}},
		{name: "not hired", filters: Filters{Hired: &notHired}, want: []int64{2, 4}},
		{name: "relocation", filters: Filters{OpenToRelocation: &reloc}, want: []int64{1, 4}},
		{name: "all approved", filters: Filters{AllApproved: true}, want: []int64{1, 4}},
		{name: "conjunction", filters: Filters{Search: "reyes", Hired: &notHired, AllApproved: true}, want: []int64{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(sampleStudents(), tt.filters, requiredDocs))
			if !equalIDs(got, tt.want) {
				t.Errorf("Filter() = %v, want %v", got, tt.want)
			}
		})
	}
}

// Applying all active filters together must equal applying them one at a
// time, in any order.
func TestFilterOrderIndependence(t *testing.T) {
	hired := true
	combined := Filters{Search: "reyes", Hired: &hired, AllApproved: true}

	singles := []Filters{
		{Search: "reyes"},
		{Hired: &hired},
		{AllApproved: true},
	}
	orders := [][]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}

	want := ids(Filter(sampleStudents(), combined, requiredDocs))
	for _, order := range orders {
		got := sampleStudents()
		for _, i := range order {
			got = Filter(got, singles[i], requiredDocs)
		}
		if !equalIDs(ids(got), want) {
			t.Errorf("order %v: got %v, want %v", order, ids(got), want)
		}
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		name string
		key  string
		desc bool
		want []int64
	}{
		{name: "by name asc", key: "name", want: []int64{1, 2, 3, 4}},
		{name: "by name desc", key: "name", desc: true, want: []int64{4, 3, 2, 1}},
		{name: "by studentNo desc", key: "studentNo", desc: true, want: []int64{4, 3, 2, 1}},
		{name: "by hired asc", key: "hired", want: []int64{2, 4, 1, 3}},
		{name: "by createdAt asc", key: "createdAt", want: []int64{1, 2, 3, 4}},
		{name: "unknown key falls back to name", key: "bogus", want: []int64{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Sort(sampleStudents(), tt.key, tt.desc))
			if !equalIDs(got, tt.want) {
				t.Errorf("Sort(%q, desc=%v) = %v, want %v", tt.key, tt.desc, got, tt.want)
			}
		})
	}
}

// Ties keep their input order when sorting ascending.
func TestSortStableForTies(t *testing.T) {
	students := sampleStudents()
	// Students 1, 3, 4 share the same program; 2 sorts first.
	got := ids(Sort(students, "program", false))
	want := []int64{2, 1, 3, 4}
	if !equalIDs(got, want) {
		t.Errorf("Sort(program) = %v, want %v", got, want)
	}
}

// Sorting ascending and then descending on the same key yields the exact
// reverse order, ties included.
func TestSortReversible(t *testing.T) {
	for _, key := range []string{"name", "program", "section", "hired", "createdAt"} {
		asc := Sort(sampleStudents(), key, false)
		desc := Sort(sampleStudents(), key, true)
		for i := range asc {
			if asc[i].ID != desc[len(desc)-1-i].ID {
				t.Errorf("key %q: position %d: asc %d vs desc %d", key, i, asc[i].ID, desc[len(desc)-1-i].ID)
			}
		}
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		page, size int
		want       []int64
		totalPages int
	}{
		{name: "first page", page: 1, size: 2, want: []int64{1, 2}, totalPages: 2},
		{name: "second page", page: 2, size: 2, want: []int64{3, 4}, totalPages: 2},
		{name: "past the end", page: 5, size: 2, want: []int64{}, totalPages: 2},
		{name: "oversized page", page: 1, size: 50, want: []int64{1, 2, 3, 4}, totalPages: 1},
		{name: "invalid page defaults to 1", page: 0, size: 3, want: []int64{1, 2, 3}, totalPages: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Paginate(sampleStudents(), tt.page, tt.size)
			if !equalIDs(ids(got.Students), tt.want) {
				t.Errorf("Paginate() students = %v, want %v", ids(got.Students), tt.want)
			}
			if got.TotalPages != tt.totalPages {
				t.Errorf("Paginate() totalPages = %d, want %d", got.TotalPages, tt.totalPages)
			}
			if got.TotalItems != 4 {
				t.Errorf("Paginate() totalItems = %d, want 4", got.TotalItems)
			}
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	got := Paginate(nil, 1, 10)
	if len(got.Students) != 0 || got.TotalItems != 0 || got.TotalPages != 1 {
		t.Errorf("Paginate(empty) = %+v", got)
	}
}

func TestApply(t *testing.T) {
	hired := true
	got := Apply(sampleStudents(), Query{
		Filters:           Filters{Hired: &hired},
		SortKey:           "name",
		SortDesc:          true,
		Page:              1,
		PageSize:          1,
		RequiredDocuments: requiredDocs,
	})
	if !equalIDs(ids(got.Students), []int64{3}) {
		t.Errorf("Apply() = %v, want [3]", ids(got.Students))
	}
	if got.TotalItems != 2 || got.TotalPages != 2 {
		t.Errorf("Apply() totals = %d/%d, want 2/2", got.TotalItems, got.TotalPages)
	}
}
