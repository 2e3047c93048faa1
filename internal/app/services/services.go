package services

// Services defined in this package:
// - AuthService: authentication, token rotation and staff account management
// - StudentService: roster views, record CRUD and archived deletions
// - ImportService: CSV roster ingestion with duplicate detection
// - ExportService: CSV/XLSX roster snapshots
// - RequirementService: requirement document review and file resolution
// - NotificationService: typed-target notifications with bounded retention
// - StatsService: cached dashboard counters
// - AvatarService: inline avatar migration into file storage
// - CompanyService: read-only partner company and program listings
// - AuditService: read access to the audit trail
