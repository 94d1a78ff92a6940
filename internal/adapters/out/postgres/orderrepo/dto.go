// Package orderrepo maps order aggregates onto the orders and
// order_stage_entries tables.
package orderrepo

import (
	"time"

	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Index names referenced by error translation.
const (
	ActiveBuyerIndex = "idx_orders_active_buyer"
	CodeIndex        = "idx_orders_code"
)

// OrderDTO is the orders row. The partial unique index on buyer_id backs the
// one-active-order-per-buyer rule.
type OrderDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Code         string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_orders_code"`
	Items        pq.StringArray  `gorm:"type:text[];not null"`
	BuyerID      *uuid.UUID      `gorm:"type:uuid;index:idx_orders_active_buyer,unique,where:is_deleted = false"`
	SellerID     *uuid.UUID      `gorm:"type:uuid;index"`
	Stage        int             `gorm:"type:smallint;not null;index"`
	IsDeleted    bool            `gorm:"not null;default:false"`
	Version      int             `gorm:"not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
	StageEntries []StageEntryDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// StageEntryDTO records when an order entered a stage. Rows are only ever inserted.
type StageEntryDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Stage     int       `gorm:"type:smallint;primaryKey;autoIncrement:false"`
	EnteredAt time.Time `gorm:"not null"`
}

func (StageEntryDTO) TableName() string {
	return "order_stage_entries"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	s := aggregate.State()
	id := s.ID.Bytes()

	entries := make([]StageEntryDTO, 0, len(s.StageTimestamps))
	for _, stage := range order.Stages() {
		if at, ok := s.StageTimestamps[stage]; ok {
			entries = append(entries, StageEntryDTO{OrderID: id, Stage: int(stage), EnteredAt: at.UTC()})
		}
	}

	return OrderDTO{
		ID:           id,
		Code:         s.Code.String(),
		Items:        pq.StringArray(s.Items),
		BuyerID:      rawID(s.BuyerID),
		SellerID:     rawID(s.SellerID),
		Stage:        int(s.Stage),
		IsDeleted:    s.Deleted,
		Version:      s.Version,
		CreatedAt:    s.CreatedAt.UTC(),
		UpdatedAt:    s.UpdatedAt.UTC(),
		StageEntries: entries,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	buyerID, err := domainID(dto.BuyerID)
	if err != nil {
		return nil, err
	}
	sellerID, err := domainID(dto.SellerID)
	if err != nil {
		return nil, err
	}

	timestamps := make(map[order.Stage]time.Time, len(dto.StageEntries))
	for _, entry := range dto.StageEntries {
		timestamps[order.Stage(entry.Stage)] = entry.EnteredAt.UTC()
	}

	return order.RestoreOrder(order.State{
		ID:              id,
		Code:            order.Code(dto.Code),
		Items:           []string(dto.Items),
		BuyerID:         buyerID,
		SellerID:        sellerID,
		Stage:           order.Stage(dto.Stage),
		StageTimestamps: timestamps,
		Deleted:         dto.IsDeleted,
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt.UTC(),
		UpdatedAt:       dto.UpdatedAt.UTC(),
	})
}

func rawID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func domainID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
