package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// /cart/{customerId} 系。どの操作もカート全体を返す。
type CartAPI struct {
	c *Client
}

type cartEnvelope struct {
	Cart *CartDocument `json:"cart"`
}

func emptyCart() CartDocument {
	return CartDocument{Items: []CartLine{}}
}

// Fetch は失敗しても空カートを返す
func (a *CartAPI) Fetch(ctx context.Context, customerID string) (CartDocument, error) {
	return a.send(ctx, request{
		method:   http.MethodGet,
		path:     pathOf("cart", customerID),
		fallback: "Failed to fetch cart",
	})
}

func (a *CartAPI) Add(ctx context.Context, customerID string, in CartLineInput) (CartDocument, error) {
	return a.send(ctx, request{
		method:   http.MethodPost,
		path:     pathOf("cart", customerID, "add"),
		body:     in,
		fallback: "Failed to add item to cart",
	})
}

func (a *CartAPI) Update(ctx context.Context, customerID string, in CartLineInput) (CartDocument, error) {
	return a.send(ctx, request{
		method:   http.MethodPut,
		path:     pathOf("cart", customerID, "update"),
		body:     in,
		fallback: "Failed to update cart item",
	})
}

// DELETE だが本文に商品とブランドを載せる
func (a *CartAPI) Remove(ctx context.Context, customerID, productID, brandName string) (CartDocument, error) {
	return a.send(ctx, request{
		method:   http.MethodDelete,
		path:     pathOf("cart", customerID, "remove"),
		body:     CartLineInput{ProductID: productID, BrandName: brandName},
		fallback: "Failed to remove item from cart",
	})
}

func (a *CartAPI) Clear(ctx context.Context, customerID string) (CartDocument, error) {
	return a.send(ctx, request{
		method:   http.MethodDelete,
		path:     pathOf("cart", customerID, "clear"),
		fallback: "Failed to clear cart",
	})
}

func (a *CartAPI) send(ctx context.Context, r request) (CartDocument, error) {
	var raw json.RawMessage
	if err := a.c.do(ctx, r, &raw); err != nil {
		return emptyCart(), err
	}

	if len(raw) == 0 {
		return emptyCart(), nil
	}

	var env cartEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return emptyCart(), fmt.Errorf("%w: cart: %v", ErrInvalidResponse, err)
	}
	if env.Cart == nil {
		return emptyCart(), fmt.Errorf("%w: missing cart", ErrInvalidResponse)
	}
	return normalizeCart(*env.Cart), nil
}

func normalizeCart(doc CartDocument) CartDocument {
	if doc.Items == nil {
		doc.Items = []CartLine{}
	}
	for i := range doc.Items {
		if doc.Items[i].Product.ProductImages == nil {
			doc.Items[i].Product.ProductImages = []string{}
		}
	}
	return doc
}
