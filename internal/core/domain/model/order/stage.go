package order

import (
	"fmt"

	"ordertracker/internal/pkg/errs"
)

// Stage is a position in the fixed delivery lifecycle.
//
//	OrderPlaced ──> BuyerAssociated ──> Processing ──> Packed ──> Shipped ──> OutForDelivery ──> Delivered
//
// The numeric value is the position in the sequence and is what the stores persist.
type Stage int

const (
	// Unknown catches uninitialised values.
	Unknown Stage = iota
	OrderPlaced
	BuyerAssociated
	Processing
	Packed
	Shipped
	OutForDelivery
	// Delivered is terminal.
	Delivered
)

var stageNames = map[Stage]string{
	OrderPlaced:     "Order Placed",
	BuyerAssociated: "Buyer Associated",
	Processing:      "Processing",
	Packed:          "Packed",
	Shipped:         "Shipped",
	OutForDelivery:  "Out for Delivery",
	Delivered:       "Delivered",
}

// Stages returns the lifecycle in order.
func Stages() []Stage {
	return []Stage{OrderPlaced, BuyerAssociated, Processing, Packed, Shipped, OutForDelivery, Delivered}
}

// ParseStage resolves the display name of a stage ("Out for Delivery").
func ParseStage(name string) (Stage, error) {
	for stage, stageName := range stageNames {
		if stageName == name {
			return stage, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("stage", fmt.Errorf("%q is not a known stage", name))
}

// Validate rejects Unknown and out of range values.
func (s Stage) Validate() error {
	if _, ok := stageNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("stage is invalid", fmt.Errorf("%d is not a valid stage", s))
	}
	return nil
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition exists.
func (s Stage) IsTerminal() bool {
	return s == Delivered
}

// Next returns the single successor of s.
// Delivered has no successor and yields an InvalidStateError.
func (s Stage) Next() (Stage, error) {
	if err := s.Validate(); err != nil {
		return Unknown, err
	}
	if s.IsTerminal() {
		return Unknown, errs.NewInvalidStateError("advance stage", s.String(), "order already delivered, no next stage")
	}
	return s + 1, nil
}

// Reached reports whether s is at or past other in the sequence.
func (s Stage) Reached(other Stage) bool {
	return s >= other
}
