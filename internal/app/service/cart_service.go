package service

import (
	"errors"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CartLine struct {
	ID          uint    `json:"id"`
	VariantID   uint    `json:"variant_id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Slug        string  `json:"slug"`
	SKU         string  `json:"sku"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	ImageURL    string  `json:"image_url"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
	Available   bool    `json:"available"` // active and enough stock for the quantity
}

type CartView struct {
	Items []CartLine `json:"items"`
	Quote
}

type CartService interface {
	GetUserCart(userID uint) (*CartView, error)
	AddToCart(userID, variantID uint, quantity int) error
	UpdateCartItem(userID, cartItemID uint, quantity int) error
	RemoveFromCart(userID, cartItemID uint) error
	ClearCart(userID uint) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	pricer      Pricer
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, pricer Pricer) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		pricer:      pricer,
	}
}

// GetUserCart prices the cart without a coupon. Unavailable lines are shown
// but left out of the totals.
func (s *cartService) GetUserCart(userID uint) (*CartView, error) {
	logger.Debug("Fetching user cart", map[string]interface{}{
		"user_id": userID,
	})

	cartItems, err := s.cartRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user cart", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(cartItems))}
	subtotal := decimal.Zero
	for _, item := range cartItems {
		variant := item.Variant
		line := CartLine{
			ID:        item.ID,
			VariantID: item.VariantID,
			SKU:       variant.SKU,
			Size:      variant.Size,
			Color:     variant.Color,
			UnitPrice: variant.Price,
			Quantity:  item.Quantity,
		}
		productActive := false
		if p := variant.Product; p != nil {
			line.ProductID = p.ID
			line.ProductName = p.Name
			line.Slug = p.Slug
			line.ImageURL = p.PrimaryImageURL()
			productActive = p.IsActive
		}

		lineTotal := decimal.NewFromFloat(variant.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		line.LineTotal = lineTotal.Round(2).InexactFloat64()
		line.Available = productActive && variant.IsActive && variant.Stock >= item.Quantity
		if line.Available {
			subtotal = subtotal.Add(lineTotal)
		}
		view.Items = append(view.Items, line)
	}
	view.Quote = s.pricer.Quote(subtotal, decimal.Zero)

	return view, nil
}

func (s *cartService) purchasableVariant(variantID uint) (*model.ProductVariant, error) {
	variant, err := s.productRepo.FindVariantByID(variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVariantNotFound
		}
		return nil, err
	}
	if !variant.IsActive || variant.Product == nil || !variant.Product.IsActive {
		return nil, ErrVariantNotFound
	}
	return variant, nil
}

// AddToCart merges into an existing line for the same variant
func (s *cartService) AddToCart(userID, variantID uint, quantity int) error {
	logger.Info("Adding item to cart", map[string]interface{}{
		"user_id":    userID,
		"variant_id": variantID,
		"quantity":   quantity,
	})

	if quantity < 1 {
		return ErrInvalidQuantity
	}
	variant, err := s.purchasableVariant(variantID)
	if err != nil {
		return err
	}

	existing, err := s.cartRepo.FindByUserAndVariant(userID, variantID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if existing != nil {
		total := existing.Quantity + quantity
		if total > variant.Stock {
			return ErrInsufficientStock
		}
		return s.cartRepo.UpdateQuantity(existing.ID, total)
	}

	if quantity > variant.Stock {
		return ErrInsufficientStock
	}
	return s.cartRepo.Create(&model.CartItem{
		UserID:    userID,
		VariantID: variantID,
		Quantity:  quantity,
	})
}

func (s *cartService) UpdateCartItem(userID, cartItemID uint, quantity int) error {
	logger.Info("Updating cart item", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
		"quantity":     quantity,
	})

	if quantity < 1 {
		return ErrInvalidQuantity
	}

	item, err := s.cartRepo.FindByIDAndUser(cartItemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	if quantity > item.Variant.Stock {
		return ErrInsufficientStock
	}
	return s.cartRepo.UpdateQuantity(item.ID, quantity)
}

func (s *cartService) RemoveFromCart(userID, cartItemID uint) error {
	logger.Info("Removing item from cart", map[string]interface{}{
		"user_id":      userID,
		"cart_item_id": cartItemID,
	})

	if err := s.cartRepo.Delete(cartItemID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		return err
	}
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	logger.Info("Clearing cart", map[string]interface{}{
		"user_id": userID,
	})
	return s.cartRepo.DeleteByUserID(userID)
}
