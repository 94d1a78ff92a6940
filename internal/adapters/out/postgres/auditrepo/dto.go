// Package auditrepo maps audit entries onto the order_audit_entries table.
package auditrepo

import (
	"time"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// AuditEntryDTO stores the action as its kind plus, for stage changes, the stage entered.
type AuditEntryDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_order_time,priority:1"`
	Kind        int       `gorm:"type:smallint;not null"`
	Stage       int       `gorm:"type:smallint;not null;default:0"`
	PerformedBy uuid.UUID `gorm:"type:uuid;not null"`
	OccurredAt  time.Time `gorm:"not null;index:idx_audit_order_time,priority:2"`
}

func (AuditEntryDTO) TableName() string {
	return "order_audit_entries"
}

func fromDomain(entry *audit.Entry) AuditEntryDTO {
	return AuditEntryDTO{
		ID:          entry.ID().Bytes(),
		OrderID:     entry.OrderID().Bytes(),
		Kind:        int(entry.Action().Kind()),
		Stage:       int(entry.Action().Stage()),
		PerformedBy: entry.PerformedBy().Bytes(),
		OccurredAt:  entry.OccurredAt().UTC(),
	}
}

func toDomain(dto AuditEntryDTO) (*audit.Entry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	performedBy, err := kernel.UUIDFromBytes(dto.PerformedBy[:])
	if err != nil {
		return nil, err
	}
	action, err := audit.RestoreAction(audit.Kind(dto.Kind), order.Stage(dto.Stage))
	if err != nil {
		return nil, err
	}
	return audit.RestoreEntry(id, orderID, action, performedBy, dto.OccurredAt.UTC())
}
