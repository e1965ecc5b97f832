package models

// StudentStatus is the display state of a student record
type StudentStatus string

const (
	// StudentStatusPending marks a student awaiting admin review
	StudentStatusPending StudentStatus = "pending"
	// StudentStatusApproved marks a student approved by an admin
	StudentStatusApproved StudentStatus = "approved"
)

// Table names
const (
	TableStudent           = "student"
	TableAdmin             = "admin"
	TableSessionRevocation = "admin_session_revocation"
)
