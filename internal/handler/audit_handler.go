package handler

import (
	"net/http"
	"strconv"

	"order17vat/internal/middleware"
	"order17vat/internal/service"
	"order17vat/pkg/pagination"
	"order17vat/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	auth         *middleware.Auth
}

func NewAuditHandler(auditService service.AuditService, auth *middleware.Auth) *AuditHandler {
	return &AuditHandler{auditService: auditService, auth: auth}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	group.Use(h.auth.RequireRole("admin")) // Protect history logs
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns one page of the audit history, including VAT flag changes
// @Summary      Get audit logs
// @Description  Retrieves the audit history, newest first. order_id and vat_only narrow it to one order's flag changes.
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page      query     int     false  "Page number (default 1)"
// @Param        limit     query     int     false  "Number of items per page (default 20)"
// @Param        order_id  query     int     false  "Only entries for this order"
// @Param        actor     query     string  false  "Only entries by this user id"
// @Param        vat_only  query     bool    false  "Only VAT 17% flag changes"
// @Success      200    {object}  response.Response{data=object}
// @Failure      400    {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	query := service.AuditQuery{Actor: c.Query("actor")}
	if raw := c.Query("order_id"); raw != "" {
		orderID, err := parseOrderID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
		query.OrderID = orderID
	}
	if raw := c.Query("vat_only"); raw != "" {
		vatOnly, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "vat_only must be a boolean"))
			return
		}
		query.VatOnly = vatOnly
	}

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), query, p.Page, p.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to retrieve audit logs: "+err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"logs":  logs,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	}))
}
