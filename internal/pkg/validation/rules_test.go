package validation

import "testing"

func TestValidStudentNo(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"2021-00451", true},
		{"202100451", true},
		{"21-1234", true},
		{"", false},
		{"ABC-00451", false},
		{"2021_00451", false},
	}
	for _, c := range cases {
		if got := ValidStudentNo(c.in); got != c.want {
			t.Errorf("ValidStudentNo(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestValidEmail(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"mia@school.edu.ph", true},
		{"juan.dela-cruz+ojt@univ.edu", true},
		{"not-an-email", false},
		{"missing@tld", false},
	}
	for _, c := range cases {
		if got := ValidEmail(c.in); got != c.want {
			t.Errorf("ValidEmail(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
