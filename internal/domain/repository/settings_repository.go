package repository

import (
	"context"

	"github.com/krishisethu/pos-api/internal/domain/entity"
)

// SettingsRepository defines the interface for shop settings data access
type SettingsRepository interface {
	// Get returns the single shop settings row, or nil if not yet created.
	Get(ctx context.Context) (*entity.ShopSettings, error)
	Create(ctx context.Context, settings *entity.ShopSettings) error
	Update(ctx context.Context, settings *entity.ShopSettings) error
}
