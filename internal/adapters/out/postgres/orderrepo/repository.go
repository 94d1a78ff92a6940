package orderrepo

import (
	"context"
	"errors"
	"time"

	"ordertracker/internal/adapters/out/postgres/pgerr"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/core/domain/model/order"
	"ordertracker/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var constraints = pgerr.Constraints{
	ActiveBuyerIndex: func(cause error) error {
		return errs.NewConflictErrorWithCause("buyer already has an active order", cause)
	},
	// Codes come from a monotonic generator, so a collision is a fault, not a user error.
	CodeIndex: func(cause error) error {
		return errs.NewInternalError("order code collision", cause)
	},
}

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts the order row and its stage entries.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return pgerr.Translate(err, "add order", constraints)
	}
	return nil
}

// Update is a compare-and-swap on the version column. Stage entries are
// insert-only, so timestamps already stored are never overwritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	db := r.db.WithContext(ctx)
	result := db.Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, aggregate.ExpectedVersion()).
		Updates(map[string]any{
			"buyer_id":   dto.BuyerID,
			"seller_id":  dto.SellerID,
			"stage":      dto.Stage,
			"is_deleted": dto.IsDeleted,
			"version":    dto.Version,
			"updated_at": dto.UpdatedAt,
		})
	if result.Error != nil {
		return pgerr.Translate(result.Error, "update order", constraints)
	}
	if result.RowsAffected == 0 {
		return errs.NewConcurrentModificationError("order", aggregate.ID().String())
	}

	if len(dto.StageEntries) > 0 {
		err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.StageEntries).Error
		if err != nil {
			return pgerr.Translate(err, "record stage entries", constraints)
		}
	}
	return nil
}

func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).Preload("StageEntries").First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, pgerr.Translate(err, "get order", nil)
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) FindActiveByBuyer(ctx context.Context, buyerID kernel.UUID) (*order.Order, error) {
	if err := buyerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).Preload("StageEntries").
		Where("buyer_id = ? AND is_deleted = ?", buyerID.Bytes(), false).
		Limit(1).
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Translate(err, "find buyer order", nil)
	}
	if len(dtos) == 0 {
		return nil, nil
	}
	return toDomain(dtos[0])
}

func (r *GormOrderRepository) ListActiveBySeller(ctx context.Context, sellerID kernel.UUID) ([]*order.Order, error) {
	if err := sellerID.Validate(); err != nil {
		return nil, err
	}
	return r.list(ctx, "list seller orders", r.db.Where("seller_id = ? AND is_deleted = ?", sellerID.Bytes(), false))
}

func (r *GormOrderRepository) ListActive(ctx context.Context) ([]*order.Order, error) {
	return r.list(ctx, "list orders", r.db.Where("is_deleted = ?", false))
}

func (r *GormOrderRepository) CountActiveByStage(ctx context.Context) (map[order.Stage]int, error) {
	rows, err := r.db.WithContext(ctx).Raw(`
		SELECT stage, COUNT(*)
		FROM orders
		WHERE is_deleted = false
		GROUP BY stage
	`).Rows()
	if err != nil {
		return nil, pgerr.Translate(err, "count orders by stage", nil)
	}
	defer rows.Close()

	counts := make(map[order.Stage]int)
	for rows.Next() {
		var stage, count int
		if err = rows.Scan(&stage, &count); err != nil {
			return nil, pgerr.Translate(err, "count orders by stage", nil)
		}
		counts[order.Stage(stage)] = count
	}
	if err = rows.Err(); err != nil {
		return nil, pgerr.Translate(err, "count orders by stage", nil)
	}
	return counts, nil
}

func (r *GormOrderRepository) AverageDeliveryDuration(ctx context.Context) (time.Duration, error) {
	var seconds float64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(AVG(EXTRACT(EPOCH FROM (delivered.entered_at - placed.entered_at))), 0)::float8
		FROM orders o
		JOIN order_stage_entries placed ON placed.order_id = o.id AND placed.stage = ?
		JOIN order_stage_entries delivered ON delivered.order_id = o.id AND delivered.stage = ?
		WHERE o.is_deleted = false
	`, int(order.OrderPlaced), int(order.Delivered)).Scan(&seconds).Error
	if err != nil {
		return 0, pgerr.Translate(err, "average delivery duration", nil)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func (r *GormOrderRepository) list(ctx context.Context, operation string, query *gorm.DB) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := query.WithContext(ctx).Preload("StageEntries").Order("created_at DESC, id").Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Translate(err, operation, nil)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
