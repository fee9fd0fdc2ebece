package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
)

// /delivery 系
type DeliveryAPI struct {
	c *Client
}

// Add は sessionID があれば /delivery/{customer}/{session}、無ければ /delivery/{customer} に送る
func (a *DeliveryAPI) Add(ctx context.Context, customerID, sessionID string, d DeliveryDetails) (Delivery, error) {
	path := pathOf("delivery", customerID)
	if sessionID != "" {
		path = pathOf("delivery", customerID, sessionID)
	}

	var raw json.RawMessage
	err := a.c.do(ctx, request{
		method:   http.MethodPost,
		path:     path,
		body:     d,
		fallback: "Failed to save delivery details",
		statusMessages: map[int]string{
			http.StatusNotFound:   "Customer or session not found",
			http.StatusBadRequest: "Invalid delivery data provided",
		},
	}, &raw)
	if err != nil {
		return Delivery{}, err
	}

	var out Delivery
	if err := decodeObject(raw, "delivery", &out); err != nil {
		return Delivery{}, err
	}
	return out, nil
}
