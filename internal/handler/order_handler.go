package handler

import (
	"errors"
	"net/http"

	"order17vat/internal/hook"
	"order17vat/internal/logger"
	"order17vat/internal/middleware"
	"order17vat/internal/service"
	"order17vat/pkg/grid"
	"order17vat/pkg/pagination"
	"order17vat/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService service.OrderService
	auth         *middleware.Auth
}

func NewOrderHandler(orderService service.OrderService, auth *middleware.Auth) *OrderHandler {
	return &OrderHandler{orderService: orderService, auth: auth}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group(OrderListPath)
	orders.Use(h.auth.RequireRole("admin", "employee"))
	{
		orders.GET("", h.GetOrderGrid)
		orders.GET("/new/form", h.GetNewOrderForm)
		orders.GET("/:orderId/form", h.GetOrderForm)
		orders.POST("", h.CreateOrder)
		orders.PUT("/:orderId", h.UpdateOrder)
		orders.DELETE("/:orderId", h.DeleteOrder)
	}
}

// GetOrderGrid returns the order list with module columns, filters and values applied
// @Summary      Order grid
// @Description  Paginated order grid. Filters are passed as filters[name]=value.
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        page        query  int     false  "Page number (default 1)"
// @Param        limit       query  int     false  "Number of items per page (default 20)"
// @Param        order_by    query  string  false  "Column id to sort on"
// @Param        sort_order  query  string  false  "asc or desc"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /admin/orders [get]
func (h *OrderHandler) GetOrderGrid(c *gin.Context) {
	p := pagination.ParseList(c)
	criteria := grid.SearchCriteria{
		OrderBy:   p.OrderBy,
		SortOrder: p.SortOrder,
		Limit:     p.Limit,
		Offset:    p.Offset,
		Filters:   p.Filters,
	}

	result, err := h.orderService.GetGrid(c.Request.Context(), criteria)
	if err != nil {
		if errors.Is(err, grid.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
		logger.FromContext(c.Request.Context()).Error("order grid failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to load orders"))
		return
	}

	c.JSON(http.StatusOK, response.Notified(http.StatusOK, map[string]interface{}{
		"definition": result.Definition,
		"records":    result.Records,
		"total":      result.Total,
		"page":       p.Page,
		"limit":      p.Limit,
	}, middleware.ConsumeFlash(c)...))
}

// GetNewOrderForm returns the empty order form
// @Summary      New order form
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=object}
// @Router       /admin/orders/new/form [get]
func (h *OrderHandler) GetNewOrderForm(c *gin.Context) {
	builder, err := h.orderService.GetForm(c.Request.Context(), nil)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("order form failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to build order form"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, builder))
}

// GetOrderForm returns the order form prefilled with the order's values
// @Summary      Edit order form
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        orderId  path  int  true  "Order ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /admin/orders/{orderId}/form [get]
func (h *OrderHandler) GetOrderForm(c *gin.Context) {
	orderID, err := parseOrderID(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	builder, err := h.orderService.GetForm(c.Request.Context(), &orderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		logger.FromContext(c.Request.Context()).Error("order form failed", zap.Uint("order_id", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to build order form"))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, builder))
}

// CreateOrder saves a new order and runs the after-create module hooks
// @Summary      Create order
// @Description  Module fields such as is_vat_17 are read from the same body
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body  service.OrderFormRequest  true  "Order form data"
// @Success      201  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /admin/orders [post]
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	req, formData, ok := bindOrderForm(c)
	if !ok {
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req, formData)
	h.respondSaved(c, http.StatusCreated, order, err)
}

// UpdateOrder saves an existing order and runs the after-update module hooks
// @Summary      Update order
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        orderId  path  int                       true  "Order ID"
// @Param        request  body  service.OrderFormRequest  true  "Order form data"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/orders/{orderId} [put]
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	orderID, err := parseOrderID(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	req, formData, ok := bindOrderForm(c)
	if !ok {
		return
	}

	order, err := h.orderService.UpdateOrder(c.Request.Context(), orderID, req, formData)
	h.respondSaved(c, http.StatusOK, order, err)
}

// DeleteOrder removes the order and runs the after-delete module hooks
// @Summary      Delete order
// @Tags         orders
// @Security     BearerAuth
// @Produce      json
// @Param        orderId  path  int  true  "Order ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      404  {object}  response.Response
// @Router       /admin/orders/{orderId} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, err := parseOrderID(c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	err = h.orderService.DeleteOrder(c.Request.Context(), orderID)
	var dispatchErr *hook.DispatchError
	switch {
	case err == nil:
		c.JSON(http.StatusOK, response.Notified(http.StatusOK, map[string]interface{}{"id_order": orderID},
			response.Notify(response.NotifySuccess, msgSuccessfulDeletion)))
	case errors.As(err, &dispatchErr):
		logger.FromContext(c.Request.Context()).Error("after delete hook failed",
			zap.Uint("order_id", orderID), zap.String("module", dispatchErr.Module), zap.Error(err))
		c.JSON(http.StatusOK, response.Notified(http.StatusOK, map[string]interface{}{"id_order": orderID},
			response.Notify(response.NotifyError, msgUnexpected)))
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	default:
		logger.FromContext(c.Request.Context()).Error("order delete failed", zap.Uint("order_id", orderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to delete order"))
	}
}

// bindOrderForm reads the body twice: once into the host fields, once as raw form data for module hooks
func bindOrderForm(c *gin.Context) (service.OrderFormRequest, map[string]interface{}, bool) {
	var req service.OrderFormRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return req, nil, false
	}

	formData := map[string]interface{}{}
	if err := c.ShouldBindBodyWith(&formData, binding.JSON); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return req, nil, false
	}
	return req, formData, true
}

// respondSaved answers a create or update. A failing module hook does not undo the saved order;
// it is reported as an error notification next to the order.
func (h *OrderHandler) respondSaved(c *gin.Context, status int, order service.OrderResponse, err error) {
	var dispatchErr *hook.DispatchError
	switch {
	case err == nil:
		c.JSON(status, response.Notified(status, map[string]interface{}{"order": order},
			response.Notify(response.NotifySuccess, msgSuccessfulUpdate)))
	case errors.As(err, &dispatchErr):
		logger.FromContext(c.Request.Context()).Error("after save hook failed",
			zap.Uint("order_id", order.ID), zap.String("module", dispatchErr.Module), zap.Error(err))
		c.JSON(status, response.Notified(status, map[string]interface{}{"order": order},
			response.Notify(response.NotifyError, vatErrorMessage(err))))
	case errors.Is(err, service.ErrInvalidOrderInput):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.Is(err, service.ErrDuplicateReference):
		c.JSON(http.StatusConflict, response.Error(http.StatusConflict, err.Error()))
	case errors.Is(err, service.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	default:
		logger.FromContext(c.Request.Context()).Error("order save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to save order"))
	}
}
