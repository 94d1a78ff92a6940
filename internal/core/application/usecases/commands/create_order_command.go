package commands

import (
	"errors"
	"fmt"
	"strings"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/errs"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand places a new order.
//
// A buyer places an order for themselves; buyerID must then be nil or their own id.
// An admin places an order on behalf of buyerID, or leaves it unassigned (nil)
// to be bound later through AssociateBuyerCommand.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(principal, []string{"item1", "item2"}, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	o, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	actor   identity.Principal
	items   []string
	buyerID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewCreateOrderCommand(actor identity.Principal, items []string, buyerID *kernel.UUID) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := actor.Require(identity.RoleBuyer, identity.RoleAdmin); err != nil {
		return CreateOrderCommand{}, err
	}
	cmd.actor = actor

	if err := errors.Join(
		cmd.setItems(items),
		cmd.setBuyerID(buyerID),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) Actor() identity.Principal {
	return c.actor
}

func (c CreateOrderCommand) Items() []string {
	return c.items
}

// BuyerID is the buyer the order is placed for, or nil for an unassigned order.
func (c CreateOrderCommand) BuyerID() *kernel.UUID {
	return c.buyerID
}

func (c *CreateOrderCommand) setItems(items []string) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if strings.TrimSpace(item) == "" {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("item %d is blank", i))
		}
	}
	c.items = append([]string(nil), items...)
	return nil
}

func (c *CreateOrderCommand) setBuyerID(buyerID *kernel.UUID) error {
	if c.actor.Is(identity.RoleBuyer) {
		if buyerID != nil && !buyerID.IsEqual(c.actor.ID) {
			return errs.NewValueIsInvalidErrorWithCause("buyer id", errors.New("buyers can only place orders for themselves"))
		}
		self := c.actor.ID
		c.buyerID = &self
		return nil
	}

	if buyerID == nil {
		return nil
	}
	if err := buyerID.Validate(); err != nil {
		return err
	}
	id := *buyerID
	c.buyerID = &id
	return nil
}
