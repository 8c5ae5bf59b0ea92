package handler

import (
	"net/http"

	"auction-marketplace/services/market/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type BackupHandler struct {
	run BackupFunc
}

func NewBackupHandler(run BackupFunc) *BackupHandler {
	return &BackupHandler{run: run}
}

// RunBackupHandler handles POST /backups
func (h *BackupHandler) RunBackupHandler(c *gin.Context) {
	actor := helpers.CurrentActor(c)
	path, err := h.run(c.Request.Context())
	if err != nil {
		helpers.RespondError(c, "RunBackupHandler", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, "backup", helpers.BackupResponse{Path: path}, "backup written successfully")
	helpers.LogSuccess("RunBackupHandler", "backup written successfully", map[string]any{
		"user_id": actor.UserID,
		"path":    path,
	})
}
