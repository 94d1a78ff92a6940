package services

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"ordertracker/internal/core/domain/model/order"

	"github.com/oklog/ulid/v2"
)

// OrderCodePrefix starts every generated order code.
const OrderCodePrefix = "ORD-"

// OrderCodeGenerator issues order codes built from monotonic ULIDs: codes are
// unique within the process and sort by placement time.
//
// Example usage:
//
//	gen := services.NewOrderCodeGenerator(time.Now)
//	code := gen.Next() // "ORD-01HV6Z4Y3C2K8E1M9N0P7QRSTU"
type OrderCodeGenerator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

// NewOrderCodeGenerator returns a generator reading time from now.
func NewOrderCodeGenerator(now func() time.Time) *OrderCodeGenerator {
	if now == nil {
		now = time.Now
	}
	return &OrderCodeGenerator{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     now,
	}
}

// Next returns a fresh code.
func (g *OrderCodeGenerator) Next() order.Code {
	g.mu.Lock()
	defer g.mu.Unlock()
	return order.Code(OrderCodePrefix + ulid.MustNew(ulid.Timestamp(g.now()), g.entropy).String())
}
