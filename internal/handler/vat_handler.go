package handler

import (
	"net/http"

	"order17vat/internal/logger"
	"order17vat/internal/middleware"
	"order17vat/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TogglePath is the toggle endpoint linked from the order grid's VAT 17% column
const TogglePath = "/admin/orders/:orderId/toggle-is-vat-17"

type VatHandler struct {
	vatService service.VatService
	auth       *middleware.Auth
}

func NewVatHandler(vatService service.VatService, auth *middleware.Auth) *VatHandler {
	return &VatHandler{vatService: vatService, auth: auth}
}

func (h *VatHandler) RegisterRoutes(router *gin.RouterGroup) {
	toggle := router.Group("")
	toggle.Use(h.auth.RequireRole("admin", "employee"))
	{
		toggle.GET(TogglePath, h.ToggleIsVat17)
		toggle.POST(TogglePath, h.ToggleIsVat17)
	}
}

// ToggleIsVat17 flips the order's 17% VAT flag and redirects back to the order list
// @Summary      Toggle VAT 17% flag
// @Description  Flips the order's VAT 17% flag, creating it when absent, then redirects to the order list with a flash notification
// @Tags         order17vat
// @Security     BearerAuth
// @Param        orderId  path  int  true  "Order ID"
// @Success      302
// @Router       /admin/orders/{orderId}/toggle-is-vat-17 [post]
func (h *VatHandler) ToggleIsVat17(c *gin.Context) {
	ctx := c.Request.Context()

	orderID, err := parseOrderID(c.Param("orderId"))
	if err != nil {
		h.redirectWithError(c, err)
		return
	}

	if _, err := h.vatService.Toggle(ctx, orderID); err != nil {
		logger.FromContext(ctx).Error("vat17 toggle failed", zap.Uint("order_id", orderID), zap.Error(err))
		h.redirectWithError(c, err)
		return
	}

	middleware.SetFlash(c, middleware.FlashSuccess, msgSuccessfulUpdate)
	c.Redirect(http.StatusFound, OrderListPath)
}

func (h *VatHandler) redirectWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	middleware.SetFlash(c, middleware.FlashError, vatErrorMessage(err))
	c.Redirect(http.StatusFound, OrderListPath)
}
