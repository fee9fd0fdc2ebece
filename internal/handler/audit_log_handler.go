package handler

import (
	"net/http"

	"medkit/internal/domain/model"
	"medkit/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /audit-logs（管理者のみ）
type AuditLogHandler struct {
	uc *usecase.AuditLogUsecase
}

func NewAuditLogHandler(uc *usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{uc: uc}
}

type auditLogListResponse struct {
	AuditLogs []model.AuditLog `json:"auditLogs"`
}

func (h *AuditLogHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	api.GET("/audit-logs", h.list, guards.Admin()...)
}

func (h *AuditLogHandler) list(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	logs, err := h.uc.List(c.Request().Context(), usecase.AuditLogListInput{
		ActorID:      c.QueryParam("actorId"),
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resourceType"),
		ResourceID:   c.QueryParam("resourceId"),
		From:         c.QueryParam("from"),
		To:           c.QueryParam("to"),
		Page:         page,
		Limit:        limit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, auditLogListResponse{AuditLogs: logs})
}
