package validation

import "regexp"

// Validation rule patterns
var (
	// EmailPattern is deliberately permissive; deliverability is not checked
	EmailPattern = `^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`

	// StudentNoPattern accepts the registrar formats seen in legacy data:
	// "2021-00451", "202100451" and short numeric IDs.
	StudentNoPattern = `^\d{2,4}-?\d{3,7}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email     *regexp.Regexp
	StudentNo *regexp.Regexp
}{
	Email:     regexp.MustCompile(EmailPattern),
	StudentNo: regexp.MustCompile(StudentNoPattern),
}

// ValidEmail reports whether the address matches the accepted format.
// Empty addresses are allowed; email is optional on student records.
func ValidEmail(email string) bool {
	if email == "" {
		return true
	}
	return CompiledPatterns.Email.MatchString(email)
}

// ValidStudentNo reports whether the student number matches an accepted format
func ValidStudentNo(studentNo string) bool {
	return CompiledPatterns.StudentNo.MatchString(studentNo)
}
