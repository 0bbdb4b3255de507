package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/internal/events"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"github.com/mithunreddyy/valuva-sub002/pkg/util"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderItemInput struct {
	VariantID uint `json:"variant_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderInput buys Items when given, otherwise the whole cart
type PlaceOrderInput struct {
	AddressID  uint             `json:"address_id" binding:"required"`
	CouponCode string           `json:"coupon_code"`
	Items      []OrderItemInput `json:"items" binding:"omitempty,dive"`
}

type OrderService interface {
	PlaceOrder(ctx context.Context, userID uint, input PlaceOrderInput) (*model.Order, error)
	GetUserOrders(userID uint, page, limit int) (*PageResult[model.Order], error)
	GetUserOrder(userID, orderID uint) (*model.Order, error)
	CancelOrder(ctx context.Context, userID, orderID uint) (*model.Order, error)

	ListAdminOrders(filter repository.OrderFilter, page, limit int) (*PageResult[model.Order], error)
	GetOrder(orderID uint) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	addressRepo repository.AddressRepository
	db          *gorm.DB
	pricer      Pricer
	publisher   events.Publisher
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	addressRepo repository.AddressRepository,
	db *gorm.DB,
	pricer Pricer,
	publisher events.Publisher,
) OrderService {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		addressRepo: addressRepo,
		db:          db,
		pricer:      pricer,
		publisher:   publisher,
		now:         time.Now,
	}
}

// orderLines merges repeated variants and returns them sorted by variant ID
// so concurrent checkouts lock rows in the same order.
func (s *orderService) orderLines(userID uint, items []OrderItemInput) ([]OrderItemInput, error) {
	if len(items) == 0 {
		cartItems, err := s.cartRepo.FindByUserID(userID)
		if err != nil {
			return nil, err
		}
		for _, ci := range cartItems {
			items = append(items, OrderItemInput{VariantID: ci.VariantID, Quantity: ci.Quantity})
		}
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	merged := make(map[uint]int, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
		merged[item.VariantID] += item.Quantity
	}

	lines := make([]OrderItemInput, 0, len(merged))
	for variantID, qty := range merged {
		lines = append(lines, OrderItemInput{VariantID: variantID, Quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].VariantID < lines[j].VariantID })
	return lines, nil
}

// PlaceOrder reserves stock, redeems the coupon, writes the order and clears
// the purchased cart lines in one transaction.
func (s *orderService) PlaceOrder(ctx context.Context, userID uint, input PlaceOrderInput) (*model.Order, error) {
	logger.Info("Placing order", map[string]interface{}{
		"user_id":    userID,
		"address_id": input.AddressID,
		"coupon":     input.CouponCode,
		"from_cart":  len(input.Items) == 0,
	})

	address, err := loadOwned(
		func() (*model.Address, error) { return s.addressRepo.FindByIDAndUser(input.AddressID, userID) },
		func(a *model.Address) uint { return a.UserID },
		userID,
		ErrAddressNotFound,
		nil,
	)
	if err != nil {
		return nil, err
	}

	lines, err := s.orderLines(userID, input.Items)
	if err != nil {
		if !errors.Is(err, ErrEmptyCart) && !errors.Is(err, ErrInvalidQuantity) {
			logger.Error("Failed to resolve order lines", err, map[string]interface{}{
				"user_id": userID,
			})
		}
		return nil, err
	}

	now := s.now().UTC()

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order placement, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"user_id": userID,
			})
			panic(r)
		}
	}()
	fail := func(err error) (*model.Order, error) {
		tx.Rollback()
		return nil, err
	}

	var (
		subtotal   = decimal.Zero
		orderItems = make([]model.OrderItem, 0, len(lines))
		variantIDs = make([]uint, 0, len(lines))
		lowStock   []events.Event
	)

	for _, line := range lines {
		var variant model.ProductVariant
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Product").
			First(&variant, line.VariantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fail(ErrVariantNotFound)
			}
			logger.Error("Failed to lock variant during order placement", err, map[string]interface{}{
				"variant_id": line.VariantID,
			})
			return fail(err)
		}
		if !variant.IsActive || variant.Product == nil || !variant.Product.IsActive {
			return fail(ErrVariantNotFound)
		}
		if variant.Stock < line.Quantity {
			logger.Warn("Order placement failed: insufficient stock", map[string]interface{}{
				"user_id":    userID,
				"variant_id": variant.ID,
				"requested":  line.Quantity,
				"available":  variant.Stock,
			})
			return fail(ErrInsufficientStock)
		}

		if err := tx.Model(&model.ProductVariant{}).
			Where("id = ?", variant.ID).
			UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity)).Error; err != nil {
			return fail(err)
		}
		if err := tx.Model(&model.Product{}).
			Where("id = ?", variant.ProductID).
			UpdateColumns(map[string]interface{}{
				"total_stock": gorm.Expr("total_stock - ?", line.Quantity),
				"total_sold":  gorm.Expr("total_sold + ?", line.Quantity),
			}).Error; err != nil {
			return fail(err)
		}

		lineTotal := decimal.NewFromFloat(variant.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		orderItems = append(orderItems, model.OrderItem{
			ProductID:   variant.ProductID,
			VariantID:   variant.ID,
			ProductName: variant.Product.Name,
			SKU:         variant.SKU,
			Size:        variant.Size,
			Color:       variant.Color,
			UnitPrice:   variant.Price,
			Quantity:    line.Quantity,
			Subtotal:    lineTotal.Round(2).InexactFloat64(),
		})
		variantIDs = append(variantIDs, variant.ID)

		if remaining := variant.Stock - line.Quantity; remaining <= model.LowStockThreshold {
			lowStock = append(lowStock, events.Event{
				Type:       events.ProductLowStock,
				ProductID:  variant.ProductID,
				VariantID:  variant.ID,
				Stock:      &remaining,
				OccurredAt: now,
			})
		}
	}

	order := &model.Order{
		OrderNumber:     util.GenerateOrderNumber(now),
		UserID:          userID,
		AddressID:       address.ID,
		ShippingAddress: address.Label(),
		Status:          model.OrderStatusPending,
		Items:           orderItems,
	}

	discount := decimal.Zero
	if input.CouponCode != "" {
		coupon, err := s.redeemCoupon(tx, input.CouponCode, subtotal, now)
		if err != nil {
			return fail(err)
		}
		discount = CouponDiscount(coupon, subtotal)
		order.CouponID = &coupon.ID
		order.CouponCode = coupon.Code
	}

	quote := s.pricer.Quote(subtotal, discount)
	order.Subtotal = quote.Subtotal
	order.Discount = quote.Discount
	order.ShippingCost = quote.ShippingCost
	order.Tax = quote.Tax
	order.Total = quote.Total

	if err := tx.Create(order).Error; err != nil {
		logger.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		return fail(err)
	}

	if err := tx.Where("user_id = ? AND variant_id IN ?", userID, variantIDs).Delete(&model.CartItem{}).Error; err != nil {
		logger.Error("Failed to clear cart after order placement", err, map[string]interface{}{
			"user_id": userID,
		})
		return fail(err)
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, map[string]interface{}{
			"user_id":  userID,
			"order_id": order.ID,
		})
		return nil, err
	}

	logger.Info("Order placed", map[string]interface{}{
		"user_id":      userID,
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"item_count":   len(orderItems),
	})

	s.publish(ctx, events.Event{
		Type:        events.OrderPlaced,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      userID,
		Status:      string(order.Status),
		Total:       order.Total,
		OccurredAt:  now,
	})
	for _, ev := range lowStock {
		s.publish(ctx, ev)
	}

	return s.orderRepo.FindByID(order.ID)
}

// redeemCoupon checks the coupon under a row lock and increments its usage
// only while it is still below the limit.
func (s *orderService) redeemCoupon(tx *gorm.DB, code string, subtotal decimal.Decimal, now time.Time) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", repository.NormalizeCouponCode(code)).
		First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}

	if err := CheckCouponApplicable(&coupon, subtotal, now); err != nil {
		return nil, err
	}

	result := tx.Model(&model.Coupon{}).
		Where("id = ? AND is_active = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", coupon.ID, true).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrCouponExhausted
	}
	coupon.UsageCount++
	return &coupon, nil
}

// restock reverses what placement did to stock, counters and coupon usage
func restock(tx *gorm.DB, order *model.Order) error {
	for _, item := range order.Items {
		if err := tx.Model(&model.ProductVariant{}).
			Where("id = ?", item.VariantID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Product{}).
			Where("id = ?", item.ProductID).
			UpdateColumns(map[string]interface{}{
				"total_stock": gorm.Expr("total_stock + ?", item.Quantity),
				"total_sold":  gorm.Expr("total_sold - ?", item.Quantity),
			}).Error; err != nil {
			return err
		}
	}
	if order.CouponID != nil {
		return tx.Model(&model.Coupon{}).
			Where("id = ? AND usage_count > 0", *order.CouponID).
			UpdateColumn("usage_count", gorm.Expr("usage_count - 1")).Error
	}
	return nil
}

func (s *orderService) GetUserOrders(userID uint, page, limit int) (*PageResult[model.Order], error) {
	logger.Debug("Fetching user orders", map[string]interface{}{
		"user_id": userID,
	})

	p := repository.NewPage(page, limit, 10)
	orders, total, err := s.orderRepo.FindByUserID(userID, p.Offset(), p.Limit)
	if err != nil {
		logger.Error("Failed to fetch user orders", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return newPageResult(orders, total, p), nil
}

// GetUserOrder hides other users' orders behind NotFound
func (s *orderService) GetUserOrder(userID, orderID uint) (*model.Order, error) {
	return loadOwned(
		func() (*model.Order, error) { return s.orderRepo.FindByIDAndUser(orderID, userID) },
		func(o *model.Order) uint { return o.UserID },
		userID,
		ErrOrderNotFound,
		nil,
	)
}

// CancelOrder lets a customer withdraw an order that has not been processed
func (s *orderService) CancelOrder(ctx context.Context, userID, orderID uint) (*model.Order, error) {
	logger.Info("Customer cancelling order", map[string]interface{}{
		"user_id":  userID,
		"order_id": orderID,
	})

	if _, err := s.GetUserOrder(userID, orderID); err != nil {
		return nil, err
	}
	return s.transition(ctx, orderID, model.OrderStatusCancelled, func(o *model.Order) error {
		if o.Status != model.OrderStatusPending {
			return ErrInvalidStatusTransition
		}
		return nil
	})
}

func (s *orderService) ListAdminOrders(filter repository.OrderFilter, page, limit int) (*PageResult[model.Order], error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ErrInvalidOrderStatus
	}
	p := repository.NewPage(page, limit, repository.DefaultPageSize)
	filter.Offset = p.Offset()
	filter.Limit = p.Limit

	orders, total, err := s.orderRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list orders", err)
		return nil, err
	}
	return newPageResult(orders, total, p), nil
}

func (s *orderService) GetOrder(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error) {
	logger.Info("Updating order status", map[string]interface{}{
		"order_id": orderID,
		"status":   status,
	})

	if !status.Valid() {
		return nil, ErrInvalidOrderStatus
	}
	return s.transition(ctx, orderID, status, nil)
}

// transition moves an order along the lifecycle under a row lock. Cancelling
// restocks in the same transaction.
func (s *orderService) transition(ctx context.Context, orderID uint, next model.OrderStatus, guard func(*model.Order) error) (*model.Order, error) {
	now := s.now().UTC()

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order status update, rolling back", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"order_id": orderID,
			})
			panic(r)
		}
	}()
	fail := func(err error) (*model.Order, error) {
		tx.Rollback()
		return nil, err
	}

	var order model.Order
	if err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(ErrOrderNotFound)
		}
		return fail(err)
	}

	if guard != nil {
		if err := guard(&order); err != nil {
			return fail(err)
		}
	}
	if !order.Status.CanTransitionTo(next) {
		logger.Warn("Rejected order status transition", map[string]interface{}{
			"order_id": orderID,
			"from":     order.Status,
			"to":       next,
		})
		return fail(ErrInvalidStatusTransition)
	}

	previous := order.Status
	updates := map[string]interface{}{"status": next}
	switch next {
	case model.OrderStatusCancelled:
		updates["cancelled_at"] = now
		if err := restock(tx, &order); err != nil {
			logger.Error("Failed to restock cancelled order", err, map[string]interface{}{
				"order_id": orderID,
			})
			return fail(err)
		}
	case model.OrderStatusDelivered:
		updates["delivered_at"] = now
	}

	if err := tx.Model(&model.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
		return fail(err)
	}
	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order status update", err, map[string]interface{}{
			"order_id": orderID,
		})
		return nil, err
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": orderID,
		"from":     previous,
		"to":       next,
	})

	s.publish(ctx, events.Event{
		Type:           events.OrderStatusChanged,
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		UserID:         order.UserID,
		Status:         string(next),
		PreviousStatus: string(previous),
		Total:          order.Total,
		OccurredAt:     now,
	})

	return s.orderRepo.FindByID(orderID)
}

func (s *orderService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event", map[string]interface{}{
			"type":  event.Type,
			"key":   event.Key(),
			"error": err.Error(),
		})
	}
}
