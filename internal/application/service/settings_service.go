package service

import (
	"context"

	"github.com/krishisethu/pos-api/internal/domain/entity"
	"github.com/krishisethu/pos-api/internal/domain/repository"
)

// SettingsService handles shop settings business logic
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetSettings retrieves the shop settings, creating defaults if not exists
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.ShopSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = &entity.ShopSettings{
			ShopName:          "KrishiSethu Fertilizers",
			DefaultGSTRate:    5,
			LowStockThreshold: 10,
		}
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating shop settings
type UpdateSettingsInput struct {
	ShopName          string
	AddressLine1      string
	AddressLine2      string
	Phone             string
	Email             string
	GSTIN             string
	StateCode         string
	InvoiceFooter     string
	DefaultGSTRate    float64
	LowStockThreshold int
}

// UpdateSettings updates the shop settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.ShopSettings, error) {
	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	settings.ShopName = input.ShopName
	settings.AddressLine1 = input.AddressLine1
	settings.AddressLine2 = input.AddressLine2
	settings.Phone = input.Phone
	settings.Email = input.Email
	settings.GSTIN = input.GSTIN
	settings.StateCode = input.StateCode
	settings.InvoiceFooter = input.InvoiceFooter
	if input.DefaultGSTRate >= 0 && input.DefaultGSTRate <= 100 {
		settings.DefaultGSTRate = input.DefaultGSTRate
	}
	if input.LowStockThreshold >= 0 {
		settings.LowStockThreshold = input.LowStockThreshold
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
