// Package memory is an in-process entity store implementing the same unit of
// work contract as the Postgres adapters. Writes made inside a unit of work
// are buffered and applied at Commit under one lock, after every version and
// uniqueness check has passed.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"ordertracker/internal/core/domain/model/audit"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"
)

// Store holds committed state. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	orders      map[kernel.UUID]order.State
	codes       map[order.Code]kernel.UUID
	activeBuyer map[kernel.UUID]kernel.UUID

	identities map[kernel.UUID]*identity.Identity
	emails     map[string]kernel.UUID

	trails map[kernel.UUID][]*audit.Entry
}

func NewStore() *Store {
	return &Store{
		orders:      make(map[kernel.UUID]order.State),
		codes:       make(map[order.Code]kernel.UUID),
		activeBuyer: make(map[kernel.UUID]kernel.UUID),
		identities:  make(map[kernel.UUID]*identity.Identity),
		emails:      make(map[string]kernel.UUID),
		trails:      make(map[kernel.UUID][]*audit.Entry),
	}
}

type orderWrite struct {
	state    order.State
	expected int
	isNew    bool
}

// batch is the set of writes one unit of work commits together.
type batch struct {
	orders     []orderWrite
	identities []*identity.Identity
	entries    []*audit.Entry
}

func (b *batch) empty() bool {
	return len(b.orders) == 0 && len(b.identities) == 0 && len(b.entries) == 0
}

// apply validates the whole batch against committed state and then stores it.
// Nothing is stored if any check fails.
func (s *Store) apply(ctx context.Context, b *batch) error {
	if err := ctx.Err(); err != nil {
		return errs.NewInternalError("commit", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[kernel.UUID]order.State, len(b.orders))
	stagedCodes := make(map[order.Code]kernel.UUID)
	// buyer id -> owning order id; nil frees the slot
	buyers := make(map[kernel.UUID]*kernel.UUID)

	ownerOf := func(buyer kernel.UUID) (kernel.UUID, bool) {
		if owner, ok := buyers[buyer]; ok {
			if owner == nil {
				return kernel.UUID{}, false
			}
			return *owner, true
		}
		owner, ok := s.activeBuyer[buyer]
		return owner, ok
	}

	for _, w := range b.orders {
		id := w.state.ID
		prev, exists := staged[id]
		if !exists {
			prev, exists = s.orders[id]
		}

		if w.isNew {
			if exists {
				return errs.NewConflictError("order " + id.String() + " already exists")
			}
			_, taken := s.codes[w.state.Code]
			if _, stagedTaken := stagedCodes[w.state.Code]; taken || stagedTaken {
				return errs.NewInternalError("order code collision", nil)
			}
			stagedCodes[w.state.Code] = id
		} else {
			if !exists {
				return errs.NewObjectNotFoundError("order", id.String())
			}
			if prev.Version != w.expected {
				return errs.NewConcurrentModificationError("order", id.String())
			}
			if !prev.Deleted && prev.BuyerID != nil {
				if owner, ok := ownerOf(*prev.BuyerID); ok && owner.IsEqual(id) {
					buyers[*prev.BuyerID] = nil
				}
			}
		}

		if !w.state.Deleted && w.state.BuyerID != nil {
			if owner, ok := ownerOf(*w.state.BuyerID); ok && !owner.IsEqual(id) {
				return errs.NewConflictError("buyer already has an active order")
			}
			orderID := id
			buyers[*w.state.BuyerID] = &orderID
		}
		staged[id] = w.state
	}

	stagedEmails := make(map[string]struct{}, len(b.identities))
	for _, i := range b.identities {
		if _, exists := s.identities[i.ID()]; exists {
			return errs.NewConflictError("identity " + i.ID().String() + " already exists")
		}
		_, taken := s.emails[i.Email()]
		if _, stagedTaken := stagedEmails[i.Email()]; taken || stagedTaken {
			return errs.NewConflictError("email is already registered")
		}
		stagedEmails[i.Email()] = struct{}{}
	}

	for id, state := range staged {
		s.orders[id] = state
	}
	for code, id := range stagedCodes {
		s.codes[code] = id
	}
	for buyer, owner := range buyers {
		if owner == nil {
			delete(s.activeBuyer, buyer)
			continue
		}
		s.activeBuyer[buyer] = *owner
	}
	for _, i := range b.identities {
		s.identities[i.ID()] = i
		s.emails[i.Email()] = i.ID()
	}
	for _, e := range b.entries {
		s.trails[e.OrderID()] = append(s.trails[e.OrderID()], e)
	}
	return nil
}

func (s *Store) getOrder(id kernel.UUID) (order.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.orders[id]
	return state, ok
}

func (s *Store) activeOrderOf(buyer kernel.UUID) (order.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.activeBuyer[buyer]
	if !ok {
		return order.State{}, false
	}
	return s.orders[id], true
}

// selectOrders returns non-deleted orders matching keep, newest first.
func (s *Store) selectOrders(keep func(order.State) bool) []order.State {
	s.mu.RLock()
	selected := make([]order.State, 0)
	for _, state := range s.orders {
		if !state.Deleted && keep(state) {
			selected = append(selected, state)
		}
	}
	s.mu.RUnlock()

	sort.Slice(selected, func(i, j int) bool {
		if !selected[i].CreatedAt.Equal(selected[j].CreatedAt) {
			return selected[i].CreatedAt.After(selected[j].CreatedAt)
		}
		return selected[i].ID.String() < selected[j].ID.String()
	})
	return selected
}

func (s *Store) averageDelivery() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total time.Duration
	var delivered int
	for _, state := range s.orders {
		if state.Deleted {
			continue
		}
		end, ok := state.StageTimestamps[order.Delivered]
		if !ok {
			continue
		}
		total += end.Sub(state.StageTimestamps[order.OrderPlaced])
		delivered++
	}
	if delivered == 0 {
		return 0
	}
	return total / time.Duration(delivered)
}

func (s *Store) getIdentity(id kernel.UUID) (*identity.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.identities[id]
	return i, ok
}

func (s *Store) identityByEmail(email string) (*identity.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.emails[email]
	if !ok {
		return nil, false
	}
	return s.identities[id], true
}

func (s *Store) identitiesWithRole(role identity.Role) []*identity.Identity {
	s.mu.RLock()
	selected := make([]*identity.Identity, 0)
	for _, i := range s.identities {
		if i.Role() == role {
			selected = append(selected, i)
		}
	}
	s.mu.RUnlock()

	sort.Slice(selected, func(a, b int) bool {
		if selected[a].Name() != selected[b].Name() {
			return selected[a].Name() < selected[b].Name()
		}
		return selected[a].ID().String() < selected[b].ID().String()
	})
	return selected
}

func (s *Store) trail(orderID kernel.UUID) []*audit.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.trails[orderID])
}
