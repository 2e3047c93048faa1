package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository                  *UserRepository
	TokenRepository                 *TokenRepository
	StudentRepository               *StudentRepository
	DeletedStudentRepository        *DeletedStudentRepository
	CompanyRepository               *CompanyRepository
	ProgramRepository               *ProgramRepository
	RequirementSubmissionRepository *RequirementSubmissionRepository
	NotificationRepository          *NotificationRepository
	AuditRepository                 *AuditRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:                  NewUserRepository(db),
		TokenRepository:                 NewTokenRepository(db),
		StudentRepository:               NewStudentRepository(db),
		DeletedStudentRepository:        NewDeletedStudentRepository(db),
		CompanyRepository:               NewCompanyRepository(db),
		ProgramRepository:               NewProgramRepository(db),
		RequirementSubmissionRepository: NewRequirementSubmissionRepository(db),
		NotificationRepository:          NewNotificationRepository(db),
		AuditRepository:                 NewAuditRepository(db),
	}
}
