package order

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order bypassed NewOrder/RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
)

// Code is the human-facing order reference (for example "ORD-01J9Z...").
type Code string

// Validate requires a non-blank code.
func (c Code) Validate() error {
	if strings.TrimSpace(string(c)) == "" {
		return errs.NewValueIsRequiredError("code")
	}
	return nil
}

func (c Code) String() string {
	return string(c)
}

// Order is the aggregate root of the delivery lifecycle.
//
// Order follows these invariants:
//   - id and code are set at creation and never change
//   - items are non-empty and fixed at creation
//   - buyer is set at most once and never cleared
//   - seller is absent until the order has reached Buyer Associated
//   - stageTimestamps holds exactly the stages up to the current one, non-decreasing
//   - a deleted order accepts no mutation
type Order struct {
	id              kernel.UUID
	code            Code
	items           []string
	buyerID         *kernel.UUID
	sellerID        *kernel.UUID
	stage           Stage
	stageTimestamps map[Stage]time.Time
	deleted         bool
	// version is bumped by every mutation; expectedVersion is what the store held when loaded.
	version         int
	expectedVersion int
	createdAt       time.Time
	updatedAt       time.Time
	isConstructed   bool
}

// State is the flat representation used by stores to persist and restore an Order.
type State struct {
	ID              kernel.UUID
	Code            Code
	Items           []string
	BuyerID         *kernel.UUID
	SellerID        *kernel.UUID
	Stage           Stage
	StageTimestamps map[Stage]time.Time
	Deleted         bool
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder places a new order at the Order Placed stage, stamped at now.
// buyerID may be nil for orders placed on behalf of a buyer not yet known.
//
// Example:
//
//	o, err := order.NewOrder(kernel.NewUUID(), "ORD-01J9Z", []string{"item1"}, &buyerID, time.Now())
func NewOrder(id kernel.UUID, code Code, items []string, buyerID *kernel.UUID, now time.Time) (*Order, error) {
	o := &Order{
		stage:           OrderPlaced,
		stageTimestamps: map[Stage]time.Time{OrderPlaced: now},
		version:         1,
		createdAt:       now,
		updatedAt:       now,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCode(code),
		o.setItems(items),
		o.setInitialBuyer(buyerID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an Order from persisted state and re-checks its invariants.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		stage:           s.Stage,
		deleted:         s.Deleted,
		version:         s.Version,
		expectedVersion: s.Version,
		createdAt:       s.CreatedAt,
		updatedAt:       s.UpdatedAt,
		isConstructed:   true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCode(s.Code),
		o.setItems(s.Items),
		o.setInitialBuyer(s.BuyerID),
		s.Stage.Validate(),
	); err != nil {
		return nil, err
	}
	if s.SellerID != nil {
		if err := s.SellerID.Validate(); err != nil {
			return nil, err
		}
		seller := *s.SellerID
		o.sellerID = &seller
	}
	if err := o.restoreTimestamps(s.StageTimestamps); err != nil {
		return nil, err
	}
	if o.sellerID != nil && !o.stage.Reached(BuyerAssociated) {
		return nil, errs.NewValueIsInvalidErrorWithCause("seller",
			fmt.Errorf("%s is not a valid stage to have a seller", o.stage))
	}
	if o.buyerID == nil && o.stage.Reached(BuyerAssociated) {
		return nil, errs.NewValueIsInvalidErrorWithCause("buyer",
			fmt.Errorf("%s is not a valid stage to have no buyer", o.stage))
	}

	return o, nil
}

// Validate ensures the Order was built through a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// ID returns the system identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Code returns the human-facing order reference.
func (o *Order) Code() Code {
	return o.code
}

// Items returns a copy of the item descriptors.
func (o *Order) Items() []string {
	return slices.Clone(o.items)
}

// Buyer returns the buyer's identity id, or nil.
func (o *Order) Buyer() *kernel.UUID {
	if o.buyerID == nil {
		return nil
	}
	id := *o.buyerID
	return &id
}

// Seller returns the seller's identity id, or nil.
func (o *Order) Seller() *kernel.UUID {
	if o.sellerID == nil {
		return nil
	}
	id := *o.sellerID
	return &id
}

// Stage returns the current lifecycle stage.
func (o *Order) Stage() Stage {
	return o.stage
}

// StageTimestamps returns a copy of the instants each reached stage was entered.
func (o *Order) StageTimestamps() map[Stage]time.Time {
	out := make(map[Stage]time.Time, len(o.stageTimestamps))
	for stage, at := range o.stageTimestamps {
		out[stage] = at
	}
	return out
}

// IsDeleted reports the soft-delete flag.
func (o *Order) IsDeleted() bool {
	return o.deleted
}

// Version is the version this aggregate will hold once its pending changes are stored.
func (o *Order) Version() int {
	return o.version
}

// ExpectedVersion is the version the store held when this aggregate was loaded
// (0 for a new order). Stores refuse to overwrite any other version.
func (o *Order) ExpectedVersion() int {
	return o.expectedVersion
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsBoughtBy reports whether id is the bound buyer.
func (o *Order) IsBoughtBy(id kernel.UUID) bool {
	return o.buyerID != nil && o.buyerID.IsEqual(id)
}

// IsHandledBy reports whether id is the bound seller.
func (o *Order) IsHandledBy(id kernel.UUID) bool {
	return o.sellerID != nil && o.sellerID.IsEqual(id)
}

// State returns the persistable representation.
func (o *Order) State() State {
	return State{
		ID:              o.id,
		Code:            o.code,
		Items:           o.Items(),
		BuyerID:         o.Buyer(),
		SellerID:        o.Seller(),
		Stage:           o.stage,
		StageTimestamps: o.StageTimestamps(),
		Deleted:         o.deleted,
		Version:         o.version,
		CreatedAt:       o.createdAt,
		UpdatedAt:       o.updatedAt,
	}
}

// AssociateBuyer binds the buyer and moves the order to Buyer Associated.
//
// Business rules:
//   - the order must be at Order Placed
//   - a buyer set at creation may be confirmed, but never replaced
func (o *Order) AssociateBuyer(buyerID kernel.UUID, at time.Time) error {
	if err := o.ensureActive(); err != nil {
		return err
	}
	if err := buyerID.Validate(); err != nil {
		return err
	}
	if o.stage != OrderPlaced {
		return errs.NewInvalidStateError("associate buyer", o.stage.String(),
			"buyer can only be associated at Order Placed stage")
	}
	if o.buyerID != nil && !o.buyerID.IsEqual(buyerID) {
		return errs.NewInvalidStateError("associate buyer", o.stage.String(),
			"a different buyer is already associated")
	}

	o.buyerID = &buyerID
	return o.enter(BuyerAssociated, at)
}

// AssociateSeller binds the seller and moves the order to Processing.
func (o *Order) AssociateSeller(sellerID kernel.UUID, at time.Time) error {
	if err := o.ensureActive(); err != nil {
		return err
	}
	if err := sellerID.Validate(); err != nil {
		return err
	}
	if o.stage != BuyerAssociated {
		return errs.NewInvalidStateError("associate seller", o.stage.String(),
			"seller can only be associated at Buyer Associated stage")
	}
	if o.sellerID != nil {
		return errs.NewInvalidStateError("associate seller", o.stage.String(),
			"a seller is already associated")
	}

	o.sellerID = &sellerID
	return o.enter(Processing, at)
}

// AdvanceStage moves the order to the next stage and returns it.
// Delivered orders yield an InvalidStateError and stay unchanged.
func (o *Order) AdvanceStage(at time.Time) (Stage, error) {
	if err := o.ensureActive(); err != nil {
		return Unknown, err
	}
	next, err := o.stage.Next()
	if err != nil {
		return Unknown, err
	}
	if err = o.enter(next, at); err != nil {
		return Unknown, err
	}
	return next, nil
}

// MarkDeleted soft-deletes the order. A deleted order cannot be deleted again.
func (o *Order) MarkDeleted(at time.Time) error {
	if err := o.ensureActive(); err != nil {
		return err
	}
	o.deleted = true
	o.touch(at)
	return nil
}

// StageDurations returns the time spent between each pair of reached stages.
func (o *Order) StageDurations() map[string]time.Duration {
	return ComputeStageDurations(o.stageTimestamps)
}

func (o *Order) ensureActive() error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.deleted {
		return errs.NewObjectNotFoundError("order", o.id.String())
	}
	return nil
}

// enter moves to stage and stamps it. Stamps never go backwards even if the
// clock does.
func (o *Order) enter(stage Stage, at time.Time) error {
	if _, stamped := o.stageTimestamps[stage]; stamped {
		return errs.NewInvalidStateError("enter "+stage.String(), o.stage.String(), "stage already entered")
	}
	if last, ok := o.stageTimestamps[o.stage]; ok && at.Before(last) {
		at = last
	}
	o.stage = stage
	o.stageTimestamps[stage] = at
	o.touch(at)
	return nil
}

func (o *Order) touch(at time.Time) {
	o.version++
	if at.After(o.updatedAt) {
		o.updatedAt = at
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCode(code Code) error {
	if err := code.Validate(); err != nil {
		return err
	}
	o.code = code
	return nil
}

func (o *Order) setItems(items []string) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	cleaned := make([]string, 0, len(items))
	for i, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("item %d is blank", i))
		}
		cleaned = append(cleaned, item)
	}
	o.items = cleaned
	return nil
}

func (o *Order) setInitialBuyer(buyerID *kernel.UUID) error {
	if buyerID == nil {
		return nil
	}
	if err := buyerID.Validate(); err != nil {
		return err
	}
	id := *buyerID
	o.buyerID = &id
	return nil
}

func (o *Order) restoreTimestamps(timestamps map[Stage]time.Time) error {
	o.stageTimestamps = make(map[Stage]time.Time, len(timestamps))
	var previous time.Time
	for _, stage := range Stages() {
		at, ok := timestamps[stage]
		if stage > o.stage {
			if ok {
				return errs.NewValueIsInvalidErrorWithCause("stage timestamps",
					fmt.Errorf("%s is stamped but order is at %s", stage, o.stage))
			}
			continue
		}
		if !ok {
			return errs.NewValueIsInvalidErrorWithCause("stage timestamps",
				fmt.Errorf("%s is missing for an order at %s", stage, o.stage))
		}
		if at.Before(previous) {
			return errs.NewValueIsInvalidErrorWithCause("stage timestamps",
				fmt.Errorf("%s was entered before the previous stage", stage))
		}
		previous = at
		o.stageTimestamps[stage] = at
	}
	if len(timestamps) != len(o.stageTimestamps) {
		return errs.NewValueIsInvalidErrorWithCause("stage timestamps", errors.New("unknown stage stamped"))
	}
	return nil
}
