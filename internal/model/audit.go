package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit carries the bookkeeping columns shared by every business entity.
// Rows are never physically deleted: SoftDelete stamps the tombstone and all
// read paths must filter is_deleted explicitly.
type Audit struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
	IsUpdated bool `gorm:"not null;default:false"`
	IsDeleted bool `gorm:"not null;default:false;index"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`
	DeletedBy *uuid.UUID `gorm:"type:uuid"`
}

// Touch marks the row as updated by actor.
func (a *Audit) Touch(actor uuid.UUID) {
	a.IsUpdated = true
	a.UpdatedBy = &actor
}

// SoftDelete stamps the tombstone. The flag is what queries filter on; the
// timestamp and actor are kept for audit trails only.
func (a *Audit) SoftDelete(actor uuid.UUID) {
	now := time.Now()
	a.IsDeleted = true
	a.DeletedAt = &now
	a.DeletedBy = &actor
}
