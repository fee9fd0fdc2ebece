package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// /orders 系（管理者向け）
type OrderAPI struct {
	c *Client
}

type OrderQuery struct {
	Page   int
	Limit  int
	Status OrderStatus
}

func (a *OrderAPI) List(ctx context.Context, q OrderQuery) (OrderPage, error) {
	query := pageQuery(q.Page, q.Limit)
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}
	r := request{
		method:   http.MethodGet,
		path:     "/orders",
		query:    query,
		fallback: "Failed to fetch orders",
	}

	var raw json.RawMessage
	if err := a.c.do(ctx, r, &raw); err != nil {
		return OrderPage{Orders: []Order{}, Error: errorText(err, r.fallback)}, err
	}
	orders, err := decodeList[Order](raw, "orders")
	if err != nil {
		return OrderPage{Orders: []Order{}, Error: errorText(err, r.fallback)}, err
	}
	for i := range orders {
		if orders[i].Items == nil {
			orders[i].Items = []SessionItem{}
		}
	}

	meta := decodeMeta(raw)
	return OrderPage{
		Orders:      orders,
		Total:       meta.Total,
		TotalPages:  meta.TotalPages,
		CurrentPage: meta.CurrentPage,
		Success:     true,
	}, nil
}

func (a *OrderAPI) Get(ctx context.Context, id string) (Order, error) {
	var raw json.RawMessage
	err := a.c.do(ctx, request{
		method:   http.MethodGet,
		path:     pathOf("orders", id),
		fallback: "Failed to fetch order details",
	}, &raw)
	if err != nil {
		return Order{}, err
	}

	var o Order
	if err := decodeObject(raw, "order", &o); err != nil {
		return Order{}, err
	}
	if o.Items == nil {
		o.Items = []SessionItem{}
	}
	return o, nil
}

// UpdateStatus は送る前に値だけ確認する（遷移の可否はサーバーが決める）
func (a *OrderAPI) UpdateStatus(ctx context.Context, id string, status OrderStatus) (Order, error) {
	if !status.Valid() {
		return Order{}, &APIError{Status: http.StatusBadRequest, Message: fmt.Sprintf("invalid order status %q", status)}
	}

	var raw json.RawMessage
	err := a.c.do(ctx, request{
		method:   http.MethodPut,
		path:     pathOf("orders", id, "status"),
		body:     map[string]string{"status": string(status)},
		fallback: "Failed to update order status",
	}, &raw)
	if err != nil {
		return Order{}, err
	}

	var o Order
	if err := decodeObject(raw, "order", &o); err != nil {
		return Order{}, err
	}
	return o, nil
}
