package roster

import (
	"strings"

	"github.com/mbaylon/interntrack/internal/app/models"
)

// Scope is the static visibility partition for one staff user. Admins see
// everything; coordinators see their assigned sections; program heads see
// students whose program maps to an assigned institutional code, optionally
// intersected with assigned sections.
type Scope struct {
	Role     models.RoleType
	Sections []string
	// ProgramCodes are the institutional codes assigned to a program head
	ProgramCodes []string
	// CodeByProgram maps program display names to institutional codes
	CodeByProgram map[string]string
}

// ScopeFor builds the scope for a user given the program-code mapping
func ScopeFor(role models.RoleType, sections, programCodes []string, programs []models.Program) Scope {
	codeByProgram := make(map[string]string, len(programs))
	for _, p := range programs {
		codeByProgram[p.Name] = p.Code
	}
	return Scope{
		Role:          role,
		Sections:      sections,
		ProgramCodes:  programCodes,
		CodeByProgram: codeByProgram,
	}
}

// All reports whether the scope is unrestricted
func (sc Scope) All() bool {
	return sc.Role == models.RoleAdmin
}

// Allows reports whether the student is visible within this scope
func (sc Scope) Allows(s *models.Student) bool {
	switch sc.Role {
	case models.RoleAdmin:
		return true

	case models.RoleCoordinator:
		return containsFold(sc.Sections, s.Section)

	case models.RoleProgramHead:
		code, ok := sc.CodeByProgram[s.Program]
		if !ok || !containsFold(sc.ProgramCodes, code) {
			return false
		}
		if len(sc.Sections) > 0 {
			return containsFold(sc.Sections, s.Section)
		}
		return true
	}
	return false
}

// AllowsSection reports whether the scope covers a whole section. Program
// heads without section assignments are treated as covering any section of
// their programs, so section-wide actions stay available to them.
func (sc Scope) AllowsSection(section string) bool {
	switch sc.Role {
	case models.RoleAdmin:
		return true
	case models.RoleCoordinator:
		return containsFold(sc.Sections, section)
	case models.RoleProgramHead:
		if len(sc.Sections) > 0 {
			return containsFold(sc.Sections, section)
		}
		return true
	}
	return false
}

// Restrict filters a snapshot down to the visible students
func (sc Scope) Restrict(students []models.Student) []models.Student {
	if sc.All() {
		return students
	}
	out := make([]models.Student, 0, len(students))
	for _, s := range students {
		if sc.Allows(&s) {
			out = append(out, s)
		}
	}
	return out
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}
