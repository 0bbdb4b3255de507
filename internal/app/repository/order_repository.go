package repository

import (
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"gorm.io/gorm"
)

// OrderFilter drives the admin order list. Nil fields are ignored.
type OrderFilter struct {
	UserID *uint
	Status *model.OrderStatus
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

type OrderRepository interface {
	FindByID(id uint) (*model.Order, error)
	FindByIDAndUser(id, userID uint) (*model.Order, error)
	FindByUserID(userID uint, offset, limit int) ([]model.Order, int64, error)
	FindWithFilter(filter OrderFilter) ([]model.Order, int64, error)
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	logger.Debug("Finding order by ID in database", map[string]interface{}{
		"order_id": id,
	})

	var order model.Order
	if err := r.preloadOrder().Preload("User").First(&order, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIDAndUser(id, userID uint) (*model.Order, error) {
	var order model.Order
	err := r.preloadOrder().Where("id = ? AND user_id = ?", id, userID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(userID uint, offset, limit int) ([]model.Order, int64, error) {
	return r.FindWithFilter(OrderFilter{UserID: &userID, Offset: offset, Limit: limit})
}

func applyOrderFilter(query *gorm.DB, filter OrderFilter) *gorm.DB {
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	return query
}

func (r *orderRepository) FindWithFilter(filter OrderFilter) ([]model.Order, int64, error) {
	logger.Debug("Finding orders with filter", map[string]interface{}{
		"user_id": filter.UserID,
		"status":  filter.Status,
		"offset":  filter.Offset,
		"limit":   filter.Limit,
	})

	var total int64
	if err := applyOrderFilter(r.db.Model(&model.Order{}), filter).Count(&total).Error; err != nil {
		logger.Error("Failed to count orders", err)
		return nil, 0, err
	}

	query := applyOrderFilter(r.preloadOrder().Model(&model.Order{}), filter).
		Order("created_at DESC, id DESC").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders with filter", err)
		return nil, 0, err
	}

	logger.Debug("Orders found with filter", map[string]interface{}{
		"count": len(orders),
		"total": total,
	})
	return orders, total, nil
}
