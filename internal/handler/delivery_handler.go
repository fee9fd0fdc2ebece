package handler

import (
	"net/http"

	"medkit/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /delivery/{customerId}(/{sessionId})
type DeliveryHandler struct {
	uc *usecase.DeliveryUsecase
}

// DI
func NewDeliveryHandler(uc *usecase.DeliveryUsecase) *DeliveryHandler {
	return &DeliveryHandler{uc: uc}
}

type DeliveryRequest struct {
	FullName             string `json:"fullName"`
	Phone                string `json:"phone"`
	Address              string `json:"address"`
	City                 string `json:"city"`
	State                string `json:"state"`
	ZipCode              string `json:"zipCode"`
	Landmark             string `json:"landmark"`
	DeliveryInstructions string `json:"deliveryInstructions"`
	AdditionalInfo       string `json:"additionalInfo"`
}

func (h *DeliveryHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/delivery/:customerId", guards.Customer("customerId")...)
	g.POST("", h.add)
	g.POST("/:sessionId", h.add)
}

func (h *DeliveryHandler) add(c echo.Context) error {
	var req DeliveryRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid delivery data provided")
	}

	d, err := h.uc.Add(c.Request().Context(), c.Param("customerId"), c.Param("sessionId"), usecase.DeliveryInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"message": "Delivery details saved", "delivery": d})
}
