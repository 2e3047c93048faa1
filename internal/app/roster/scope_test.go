package roster

import (
	"testing"

	"github.com/mbaylon/interntrack/internal/app/models"
)

var programs = []models.Program{
	{ID: 1, Name: "BS Information Technology", Code: "BSIT"},
	{ID: 2, Name: "BS Computer Science", Code: "BSCS"},
}

func TestScopeAllows(t *testing.T) {
	student := func(program, section string) *models.Student {
		return &models.Student{Program: program, Section: section}
	}

	tests := []struct {
		name  string
		scope Scope
		s     *models.Student
		want  bool
	}{
		{
			name:  "admin sees everything",
			scope: ScopeFor(models.RoleAdmin, nil, nil, programs),
			s:     student("BS Information Technology", "IT-4A"),
			want:  true,
		},
		{
			name:  "coordinator inside assigned section",
			scope: ScopeFor(models.RoleCoordinator, []string{"IT-4A", "IT-4B"}, nil, programs),
			s:     student("BS Information Technology", "IT-4B"),
			want:  true,
		},
		{
			name:  "coordinator outside assigned section",
			scope: ScopeFor(models.RoleCoordinator, []string{"IT-4A"}, nil, programs),
			s:     student("BS Information Technology", "IT-4B"),
			want:  false,
		},
		{
			name:  "coordinator section match is case-insensitive",
			scope: ScopeFor(models.RoleCoordinator, []string{"it-4a"}, nil, programs),
			s:     student("BS Information Technology", "IT-4A"),
			want:  true,
		},
		{
			name:  "program head with assigned code",
			scope: ScopeFor(models.RoleProgramHead, nil, []string{"BSIT"}, programs),
			s:     student("BS Information Technology", "IT-4A"),
			want:  true,
		},
		{
			name:  "program head with other code",
			scope: ScopeFor(models.RoleProgramHead, nil, []string{"BSCS"}, programs),
			s:     student("BS Information Technology", "IT-4A"),
			want:  false,
		},
		{
			name:  "program head with unmapped program",
			scope: ScopeFor(models.RoleProgramHead, nil, []string{"BSIT"}, programs),
			s:     student("BS Nursing", "N-4A"),
			want:  false,
		},
		{
			name:  "program head intersected with sections",
			scope: ScopeFor(models.RoleProgramHead, []string{"IT-4A"}, []string{"BSIT"}, programs),
			s:     student("BS Information Technology", "IT-4B"),
			want:  false,
		},
		{
			name:  "program head intersected with sections, inside",
			scope: ScopeFor(models.RoleProgramHead, []string{"IT-4B"}, []string{"BSIT"}, programs),
			s:     student("BS Information Technology", "IT-4B"),
			want:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Allows(tt.s); got != tt.want {
				t.Errorf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}
}

// A section-scoped viewer must never see a record outside its assigned
// sections, whatever the roster contains.
func TestRestrictNeverLeaks(t *testing.T) {
	rosters := [][]models.Student{
		nil,
		{{ID: 1, Section: "IT-4A"}},
		{{ID: 1, Section: "IT-4A"}, {ID: 2, Section: "IT-4B"}, {ID: 3, Section: "CS-4A"}},
		{{ID: 1, Section: ""}, {ID: 2, Section: "it-4a"}},
	}

	scope := ScopeFor(models.RoleCoordinator, []string{"IT-4A"}, nil, programs)
	for i, students := range rosters {
		visible := scope.Restrict(students)
		for _, s := range visible {
			if !containsFold(scope.Sections, s.Section) {
				t.Errorf("roster %d: leaked student %d in section %q", i, s.ID, s.Section)
			}
		}
	}
}
