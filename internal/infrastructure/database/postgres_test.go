package database

import "testing"

func TestGormConfigTranslatesDriverErrors(t *testing.T) {
	cfg := gormConfig()
	if !cfg.TranslateError {
		t.Error("TranslateError must be enabled: duplicate-key inserts during offline replay are detected via gorm.ErrDuplicatedKey, which only matches translated driver errors")
	}
	if cfg.Logger == nil {
		t.Error("connection logger must be configured")
	}
}
