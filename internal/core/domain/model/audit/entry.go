package audit

import (
	"errors"
	"time"

	"ordertracker/internal/core/domain/model/kernel"
)

var ErrEntryIsNotConstructed = errors.New("Entry must be created via NewEntry or RestoreEntry constructor")

// Entry records one mutation of one order. Entries are never updated.
type Entry struct {
	id          kernel.UUID
	orderID     kernel.UUID
	action      Action
	performedBy kernel.UUID
	occurredAt  time.Time

	isConstructed bool
}

func NewEntry(orderID kernel.UUID, action Action, performedBy kernel.UUID, occurredAt time.Time) (*Entry, error) {
	return RestoreEntry(kernel.NewUUID(), orderID, action, performedBy, occurredAt)
}

func RestoreEntry(id, orderID kernel.UUID, action Action, performedBy kernel.UUID, occurredAt time.Time) (*Entry, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		action.Validate(),
		performedBy.Validate(),
	); err != nil {
		return nil, err
	}
	return &Entry{
		id:            id,
		orderID:       orderID,
		action:        action,
		performedBy:   performedBy,
		occurredAt:    occurredAt,
		isConstructed: true,
	}, nil
}

func (e *Entry) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEntryIsNotConstructed
	}
	return nil
}

func (e *Entry) ID() kernel.UUID          { return e.id }
func (e *Entry) OrderID() kernel.UUID     { return e.orderID }
func (e *Entry) Action() Action           { return e.action }
func (e *Entry) PerformedBy() kernel.UUID { return e.performedBy }
func (e *Entry) OccurredAt() time.Time    { return e.occurredAt }
