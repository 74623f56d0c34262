package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/krishisethu/pos-api/internal/application/service"
	"github.com/krishisethu/pos-api/internal/presentation/http/dto/response"
)

// SyncHandler exposes the offline queue over HTTP
type SyncHandler struct {
	syncService *service.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(syncService *service.SyncService) *SyncHandler {
	return &SyncHandler{syncService: syncService}
}

// Status returns the number of mutations waiting to be replayed
func (h *SyncHandler) Status(c *gin.Context) {
	pending, err := h.syncService.Pending(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	dead, err := h.syncService.Dead(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sync status retrieved", gin.H{"pending": pending, "dead": dead})
}

// Trigger forces an immediate drain of the offline queue
func (h *SyncHandler) Trigger(c *gin.Context) {
	synced, err := h.syncService.DrainOnce(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sync completed", gin.H{"synced": synced})
}
