package realtime

import (
	"errors"
	"sync"
	"time"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/errs"
	"ordertracker/internal/pkg/metrics"

	"go.uber.org/zap"
)

// DefaultSendBuffer is the per-client queue length used when none is configured.
const DefaultSendBuffer = 32

var ErrHubClosed = errors.New("realtime hub is closed")

// Channels used as metric labels.
const (
	channelBuyer  = "buyer"
	channelSeller = "seller"
	channelAdmin  = "admin"
	channelAll    = "all"
)

type watermark struct {
	version int
	seen    time.Time
	// retired marks a deleted order: every later publish for it is discarded.
	retired bool
}

// Snapshot is one committed state of an order, ready to publish.
type Snapshot struct {
	OrderID kernel.UUID
	Version int
	Buyer   *kernel.UUID
	Seller  *kernel.UUID
	// Data is rendered into the event payload.
	Data any
}

type Hub struct {
	mu         sync.Mutex
	clients    map[*Client]struct{}
	rooms      map[kernel.UUID]map[*Client]struct{}
	admins     map[*Client]struct{}
	watermarks map[kernel.UUID]watermark
	closed     bool

	buffer  int
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewHub(buffer int, m *metrics.Metrics, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = DefaultSendBuffer
	}
	return &Hub{
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[kernel.UUID]map[*Client]struct{}),
		admins:     make(map[*Client]struct{}),
		watermarks: make(map[kernel.UUID]watermark),
		buffer:     buffer,
		now:        time.Now,
		metrics:    m,
		logger:     logger,
	}
}

// Connect registers a new connection for an authenticated principal.
func (h *Hub) Connect(principal identity.Principal) (*Client, error) {
	if err := principal.Validate(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrHubClosed
	}

	c := newClient(principal, h.buffer)
	h.clients[c] = struct{}{}
	h.metrics.ConnectionOpened()
	return c, nil
}

// Join subscribes c to the channel of identityID. Joining twice is harmless.
// A client may join only its own identity unless it is an admin. Admins also
// receive the broadcast channel once joined.
func (h *Hub) Join(c *Client, identityID kernel.UUID) error {
	if err := identityID.Validate(); err != nil {
		return err
	}
	isAdmin := c.principal.Is(identity.RoleAdmin)
	if !isAdmin && !c.principal.ID.IsEqual(identityID) {
		return errs.NewForbiddenError(c.principal.Role.String())
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return ErrHubClosed
	}

	room, ok := h.rooms[identityID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[identityID] = room
	}
	room[c] = struct{}{}
	c.joined[identityID] = struct{}{}
	if isAdmin {
		h.admins[c] = struct{}{}
	}
	return nil
}

// Disconnect drops every membership of c and closes it. Safe to call twice.
func (h *Hub) Disconnect(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disconnectLocked(c)
}

func (h *Hub) disconnectLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	for id := range c.joined {
		if room, ok := h.rooms[id]; ok {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, id)
			}
		}
	}
	delete(h.admins, c)
	delete(h.clients, c)
	c.close()
	h.metrics.ConnectionClosed()
}

// Publish delivers s to the buyer and seller channels and to every admin. It
// reports false if s was not newer than the last snapshot of the same order.
func (h *Hub) Publish(s Snapshot) (bool, error) {
	update, err := encode(EventOrderUpdate, s.Data)
	if err != nil {
		return false, err
	}
	adminUpdate, err := encode(EventAdminOrderUpdate, s.Data)
	if err != nil {
		return false, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false, ErrHubClosed
	}

	if last, ok := h.watermarks[s.OrderID]; ok && (last.retired || s.Version <= last.version) {
		h.metrics.Notification(channelAll, metrics.NotificationStale)
		h.logger.Debug("stale snapshot discarded",
			zap.String("order_id", s.OrderID.String()),
			zap.Int("version", s.Version),
			zap.Int("published", last.version),
		)
		return false, nil
	}
	h.watermarks[s.OrderID] = watermark{version: s.Version, seen: h.now()}

	if s.Buyer != nil {
		h.deliverLocked(h.rooms[*s.Buyer], update, channelBuyer)
	}
	if s.Seller != nil {
		h.deliverLocked(h.rooms[*s.Seller], update, channelSeller)
	}
	h.deliverLocked(h.admins, adminUpdate, channelAdmin)
	return true, nil
}

func (h *Hub) deliverLocked(targets map[*Client]struct{}, frame []byte, channel string) {
	for c := range targets {
		if c.enqueue(frame) {
			h.metrics.Notification(channel, metrics.NotificationSent)
			continue
		}
		h.metrics.Notification(channel, metrics.NotificationDropped)
		h.logger.Warn("slow client, message dropped",
			zap.String("channel", channel),
			zap.String("identity_id", c.principal.ID.String()),
		)
	}
}

// RetireOrder leaves a tombstone for a deleted order. Snapshots of it still in
// flight are discarded, whatever their version.
func (h *Hub) RetireOrder(orderID kernel.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	w := h.watermarks[orderID]
	w.retired = true
	w.seen = h.now()
	h.watermarks[orderID] = w
}

// PruneWatermarks forgets orders, retired ones included, with no activity for
// longer than idle and returns how many were dropped.
func (h *Hub) PruneWatermarks(idle time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	cutoff := h.now().Add(-idle)
	pruned := 0
	for id, w := range h.watermarks {
		if w.seen.Before(cutoff) {
			delete(h.watermarks, id)
			pruned++
		}
	}
	return pruned
}

// Connections returns the number of open clients.
func (h *Hub) Connections() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and refuses further use.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for c := range h.clients {
		h.disconnectLocked(c)
	}
	h.closed = true
	h.logger.Info("realtime hub closed")
}
