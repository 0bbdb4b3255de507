package service

import (
	"strings"

	"github.com/mithunreddyy/valuva-sub002/internal/app/model"
	"github.com/mithunreddyy/valuva-sub002/internal/app/repository"
	"github.com/mithunreddyy/valuva-sub002/pkg/logger"
)

type AddressInput struct {
	FullName     string `json:"full_name" binding:"required,max=100"`
	Phone        string `json:"phone" binding:"required,max=30"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	PostalCode   string `json:"postal_code" binding:"required,max=20"`
	Country      string `json:"country" binding:"required"`
	IsDefault    bool   `json:"is_default"`
}

func (in AddressInput) apply(address *model.Address) {
	address.FullName = strings.TrimSpace(in.FullName)
	address.Phone = strings.TrimSpace(in.Phone)
	address.AddressLine1 = strings.TrimSpace(in.AddressLine1)
	address.AddressLine2 = strings.TrimSpace(in.AddressLine2)
	address.City = strings.TrimSpace(in.City)
	address.State = strings.TrimSpace(in.State)
	address.PostalCode = strings.TrimSpace(in.PostalCode)
	address.Country = strings.TrimSpace(in.Country)
}

type AddressService interface {
	GetUserAddresses(userID uint) ([]model.Address, error)
	CreateAddress(userID uint, input AddressInput) (*model.Address, error)
	UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error)
	DeleteAddress(userID, addressID uint) error
	SetDefaultAddress(userID, addressID uint) error
}

type addressService struct {
	addressRepo repository.AddressRepository
}

func NewAddressService(addressRepo repository.AddressRepository) AddressService {
	return &addressService{
		addressRepo: addressRepo,
	}
}

// GetUserAddresses lists the default first, then newest first
func (s *addressService) GetUserAddresses(userID uint) ([]model.Address, error) {
	logger.Debug("Fetching user addresses", map[string]interface{}{
		"user_id": userID,
	})

	addresses, err := s.addressRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch user addresses", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	if addresses == nil {
		addresses = []model.Address{}
	}
	return addresses, nil
}

// CreateAddress makes a user's first address the default regardless of input
func (s *addressService) CreateAddress(userID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Creating address", map[string]interface{}{
		"user_id":    userID,
		"is_default": input.IsDefault,
	})

	count, err := s.addressRepo.CountByUserID(userID)
	if err != nil {
		return nil, err
	}

	address := &model.Address{UserID: userID, IsDefault: input.IsDefault || count == 0}
	input.apply(address)

	if err := s.addressRepo.Create(address); err != nil {
		logger.Error("Failed to create address", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("Address created", map[string]interface{}{
		"address_id": address.ID,
		"user_id":    userID,
	})
	return address, nil
}

func (s *addressService) loadOwnAddress(userID, addressID uint) (*model.Address, error) {
	return loadOwned(
		func() (*model.Address, error) { return s.addressRepo.FindByIDAndUser(addressID, userID) },
		func(a *model.Address) uint { return a.UserID },
		userID,
		ErrAddressNotFound,
		nil,
	)
}

// UpdateAddress never clears the default flag. A user moves the default by
// setting it on another address.
func (s *addressService) UpdateAddress(userID, addressID uint, input AddressInput) (*model.Address, error) {
	logger.Info("Updating address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	address, err := s.loadOwnAddress(userID, addressID)
	if err != nil {
		return nil, err
	}

	input.apply(address)
	address.IsDefault = address.IsDefault || input.IsDefault

	if err := s.addressRepo.Update(address); err != nil {
		logger.Error("Failed to update address", err, map[string]interface{}{
			"address_id": addressID,
		})
		return nil, err
	}
	return address, nil
}

func (s *addressService) DeleteAddress(userID, addressID uint) error {
	logger.Info("Deleting address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	if _, err := s.loadOwnAddress(userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.Delete(addressID, userID)
}

func (s *addressService) SetDefaultAddress(userID, addressID uint) error {
	logger.Info("Setting default address", map[string]interface{}{
		"user_id":    userID,
		"address_id": addressID,
	})

	if _, err := s.loadOwnAddress(userID, addressID); err != nil {
		return err
	}
	return s.addressRepo.SetDefault(userID, addressID)
}
