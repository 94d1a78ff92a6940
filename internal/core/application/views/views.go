// Package views renders aggregates into the read models returned by queries
// and pushed to realtime subscribers. Referenced identities are resolved to
// their display fields here so both paths render the same snapshot.
package views

import (
	"context"
	"time"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/core/ports"
)

// Party is the public face of a buyer or seller.
type Party struct {
	ID    kernel.UUID `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
}

// Profile adds the role to a Party and is what an identity sees of itself.
type Profile struct {
	Party
	Role identity.Role `json:"role"`
}

type Order struct {
	ID              kernel.UUID          `json:"id"`
	Code            string               `json:"orderId"`
	Items           []string             `json:"items"`
	Buyer           *Party               `json:"buyer"`
	Seller          *Party               `json:"seller"`
	CurrentStage    string               `json:"currentStage"`
	StageTimestamps map[string]time.Time `json:"stageTimestamps"`
	IsDeleted       bool                 `json:"isDeleted"`
	Version         int                  `json:"version"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

type AuditEntry struct {
	ID          kernel.UUID `json:"id"`
	Action      string      `json:"action"`
	PerformedBy *Profile    `json:"performedBy"`
	Timestamp   time.Time   `json:"timestamp"`
}

func NewParty(i *identity.Identity) Party {
	return Party{ID: i.ID(), Name: i.Name(), Email: i.Email()}
}

func NewProfile(i *identity.Identity) Profile {
	return Profile{Party: NewParty(i), Role: i.Role()}
}

// NewOrder renders o. Parties missing from parties render as null.
func NewOrder(o *order.Order, parties map[kernel.UUID]*identity.Identity) Order {
	stamps := o.StageTimestamps()
	rendered := make(map[string]time.Time, len(stamps))
	for stage, at := range stamps {
		rendered[stage.String()] = at
	}

	return Order{
		ID:              o.ID(),
		Code:            o.Code().String(),
		Items:           o.Items(),
		Buyer:           partyOf(o.Buyer(), parties),
		Seller:          partyOf(o.Seller(), parties),
		CurrentStage:    o.Stage().String(),
		StageTimestamps: rendered,
		IsDeleted:       o.IsDeleted(),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}

func partyOf(id *kernel.UUID, parties map[kernel.UUID]*identity.Identity) *Party {
	if id == nil {
		return nil
	}
	i, ok := parties[*id]
	if !ok {
		return nil
	}
	p := NewParty(i)
	return &p
}

// Resolver renders aggregates, reading referenced identities in one batch.
type Resolver struct {
	identities ports.IdentityRepository
}

func NewResolver(identities ports.IdentityRepository) Resolver {
	return Resolver{identities: identities}
}

func (r Resolver) Order(ctx context.Context, o *order.Order) (Order, error) {
	rendered, err := r.Orders(ctx, []*order.Order{o})
	if err != nil {
		return Order{}, err
	}
	return rendered[0], nil
}

func (r Resolver) Orders(ctx context.Context, orders []*order.Order) ([]Order, error) {
	ids := make([]kernel.UUID, 0, 2*len(orders))
	for _, o := range orders {
		if buyer := o.Buyer(); buyer != nil {
			ids = append(ids, *buyer)
		}
		if seller := o.Seller(); seller != nil {
			ids = append(ids, *seller)
		}
	}

	parties, err := r.lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	rendered := make([]Order, 0, len(orders))
	for _, o := range orders {
		rendered = append(rendered, NewOrder(o, parties))
	}
	return rendered, nil
}

// AuditTrail renders entries oldest first with the acting identity resolved.
func (r Resolver) AuditTrail(ctx context.Context, entries []*audit.Entry) ([]AuditEntry, error) {
	ids := make([]kernel.UUID, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.PerformedBy())
	}

	actors, err := r.lookup(ctx, ids)
	if err != nil {
		return nil, err
	}

	rendered := make([]AuditEntry, 0, len(entries))
	for _, e := range entries {
		entry := AuditEntry{
			ID:        e.ID(),
			Action:    e.Action().String(),
			Timestamp: e.OccurredAt(),
		}
		if actor, ok := actors[e.PerformedBy()]; ok {
			profile := NewProfile(actor)
			entry.PerformedBy = &profile
		}
		rendered = append(rendered, entry)
	}
	return rendered, nil
}

func (r Resolver) lookup(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*identity.Identity, error) {
	if len(ids) == 0 {
		return map[kernel.UUID]*identity.Identity{}, nil
	}
	return r.identities.GetMany(ctx, ids)
}
