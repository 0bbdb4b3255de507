package service

import (
	"errors"
	"time"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	apperrors "github.com/mithunreddyy/valuva-sub002/internal/errors"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
	"gorm.io/gorm"
)

// WishlistProduct is the product snapshot shown on a wishlist entry
type WishlistProduct struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	Slug          string  `json:"slug"`
	Price         float64 `json:"price"`
	ImageURL      string  `json:"image_url"`
	IsActive      bool    `json:"is_active"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}

type WishlistEntry struct {
	ID      uint            `json:"id"`
	Product WishlistProduct `json:"product"`
	AddedAt time.Time       `json:"added_at"`
}

type WishlistService interface {
	GetWishlist(userID uint) ([]WishlistEntry, error)
	AddToWishlist(userID, productID uint) ([]WishlistEntry, error)
	RemoveFromWishlist(userID, productID uint) ([]WishlistEntry, error)
}

type wishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) WishlistService {
	return &wishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

func (s *wishlistService) GetWishlist(userID uint) ([]WishlistEntry, error) {
	items, err := s.wishlistRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, len(items))
	for i := range items {
		products[i] = items[i].Product
	}
	summaries, err := summarize(s.productRepo, products)
	if err != nil {
		logger.Error("Failed to attach wishlist ratings", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	entries := make([]WishlistEntry, len(items))
	for i := range items {
		p := summaries[i]
		entries[i] = WishlistEntry{
			ID: items[i].ID,
			Product: WishlistProduct{
				ID:            p.ID,
				Name:          p.Name,
				Slug:          p.Slug,
				Price:         p.BasePrice,
				ImageURL:      p.PrimaryImageURL(),
				IsActive:      p.IsActive,
				AverageRating: p.AverageRating,
				ReviewCount:   p.ReviewCount,
			},
			AddedAt: items[i].CreatedAt,
		}
	}
	return entries, nil
}

// AddToWishlist returns the refreshed list so callers can re-render in one
// round trip.
func (s *wishlistService) AddToWishlist(userID, productID uint) ([]WishlistEntry, error) {
	logger.Info("Adding product to wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	exists, err := s.wishlistRepo.Exists(userID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrWishlistItemExists
	}

	if err := s.wishlistRepo.Create(&model.WishlistItem{UserID: userID, ProductID: productID}); err != nil {
		if apperrors.ParseError(err, "create wishlist").Code == apperrors.WishlistItemExists {
			return nil, ErrWishlistItemExists
		}
		return nil, err
	}
	return s.GetWishlist(userID)
}

// RemoveFromWishlist is idempotent
func (s *wishlistService) RemoveFromWishlist(userID, productID uint) ([]WishlistEntry, error) {
	logger.Info("Removing product from wishlist", map[string]interface{}{
		"user_id":    userID,
		"product_id": productID,
	})

	if err := s.wishlistRepo.Delete(userID, productID); err != nil {
		return nil, err
	}
	return s.GetWishlist(userID)
}
