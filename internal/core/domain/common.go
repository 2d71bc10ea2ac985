package domain

import "time"

// AuditFields holds the creation timestamp shared by domain entities.
// Ledger entities are never updated after creation, so there is no
// last-updated tracking here.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
}
