// Package roster implements the pure view-query layer applied over student
// snapshots: conjunction filtering, single-key sorting, offset pagination and
// role-based visibility scoping. Everything here is side-effect free so the
// view behavior can be tested without a database.
package roster

import (
	"math"
	"sort"
	"strings"

	"github.com/mbaylon/interntrack/internal/app/models"
)

// Filters is a conjunction of independently optional predicates. Zero values
// mean "not active".
type Filters struct {
	// Search matches as a case-insensitive substring of name, program,
	// email or contact number.
	Search string
	// Hired filters on the hire flag when set
	Hired *bool
	// OpenToRelocation filters on the relocation flag when set
	OpenToRelocation *bool
	// AllApproved keeps only students whose required documents are all
	// accepted (derived predicate)
	AllApproved bool
}

// Query describes one roster view request
type Query struct {
	Filters  Filters
	SortKey  string
	SortDesc bool
	Page     int
	PageSize int
	// RequiredDocuments backs the AllApproved predicate
	RequiredDocuments []string
}

// Page is one page of the filtered, sorted roster
type Page struct {
	Students   []models.Student
	TotalItems int
	Page       int
	PageSize   int
	TotalPages int
}

// Apply runs the full view pipeline: filter, sort, paginate
func Apply(students []models.Student, q Query) Page {
	filtered := Filter(students, q.Filters, q.RequiredDocuments)
	sorted := Sort(filtered, q.SortKey, q.SortDesc)
	return Paginate(sorted, q.Page, q.PageSize)
}

// Filter returns the students matching every active predicate. The predicates
// are independent, so applying them together or one at a time in any order
// yields the same set.
func Filter(students []models.Student, f Filters, requiredDocs []string) []models.Student {
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if matches(&s, f, requiredDocs) {
			out = append(out, s)
		}
	}
	return out
}

func matches(s *models.Student, f Filters, requiredDocs []string) bool {
	if f.Search != "" && !matchesSearch(s, f.Search) {
		return false
	}
	if f.Hired != nil && s.Hired != *f.Hired {
		return false
	}
	if f.OpenToRelocation != nil && s.OpenToRelocation != *f.OpenToRelocation {
		return false
	}
	if f.AllApproved && !models.AllApproved(s.Requirements, requiredDocs) {
		return false
	}
	return true
}

func matchesSearch(s *models.Student, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	for _, hay := range []string{s.FullName(), s.Program, s.Email, s.ContactNumber, s.StudentNo} {
		if strings.Contains(strings.ToLower(hay), needle) {
			return true
		}
	}
	return false
}

// Sort orders students by a single key. Ascending order is stable for ties;
// descending is the exact reverse of ascending, so sorting one way and then
// the other yields reversed output. The input slice is not modified.
func Sort(students []models.Student, key string, desc bool) []models.Student {
	out := make([]models.Student, len(students))
	copy(out, students)
	if key == "" {
		key = "name"
	}

	sort.SliceStable(out, func(i, j int) bool {
		return sortValue(&out[i], key) < sortValue(&out[j], key)
	})

	if desc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// sortValue coerces a field to a comparable string: strings lower-cased,
// slices joined, booleans as 0/1, times in RFC3339 (lexicographic order
// matches chronological order), missing values as empty.
func sortValue(s *models.Student, key string) string {
	switch key {
	case "studentNo":
		return strings.ToLower(s.StudentNo)
	case "program":
		return strings.ToLower(s.Program)
	case "section":
		return strings.ToLower(s.Section)
	case "email":
		return strings.ToLower(s.Email)
	case "contactNumber":
		return strings.ToLower(s.ContactNumber)
	case "hired":
		if s.Hired {
			return "1"
		}
		return "0"
	case "requirements":
		names := make([]string, 0, len(s.Requirements))
		for _, r := range s.Requirements {
			names = append(names, strings.ToLower(r.Name))
		}
		return strings.Join(names, ",")
	case "createdAt":
		return s.CreatedAt.UTC().Format("2006-01-02T15:04:05.000000000Z")
	default: // name
		return strings.ToLower(s.FullName())
	}
}

// Paginate slices the sorted result by 1-based page number
func Paginate(students []models.Student, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	total := len(students)
	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(size)))
	} else if page == 1 {
		totalPages = 1
	}

	start := (page - 1) * size
	end := start + size
	if start >= total {
		start, end = total, total
	} else if end > total {
		end = total
	}

	return Page{
		Students:   students[start:end],
		TotalItems: total,
		Page:       page,
		PageSize:   size,
		TotalPages: totalPages,
	}
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)
