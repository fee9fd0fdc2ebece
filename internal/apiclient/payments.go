package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
)

// /payments 系（管理者の承認・却下）
type PaymentAPI struct {
	c *Client
}

type PaymentQuery struct {
	Page   int
	Limit  int
	Status PaymentStatus
}

func (a *PaymentAPI) List(ctx context.Context, q PaymentQuery) (PaymentPage, error) {
	query := pageQuery(q.Page, q.Limit)
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}
	r := request{
		method:   http.MethodGet,
		path:     "/payments",
		query:    query,
		fallback: "Failed to fetch payments",
	}

	var raw json.RawMessage
	if err := a.c.do(ctx, r, &raw); err != nil {
		return PaymentPage{Payments: []PaymentSession{}, Error: errorText(err, r.fallback)}, err
	}
	payments, err := decodeList[PaymentSession](raw, "payments")
	if err != nil {
		return PaymentPage{Payments: []PaymentSession{}, Error: errorText(err, r.fallback)}, err
	}

	meta := decodeMeta(raw)
	return PaymentPage{
		Payments:    payments,
		Total:       meta.Total,
		TotalPages:  meta.TotalPages,
		CurrentPage: meta.CurrentPage,
		Success:     true,
	}, nil
}

func (a *PaymentAPI) Get(ctx context.Context, id string) (PaymentSession, error) {
	var raw json.RawMessage
	err := a.c.do(ctx, request{
		method:   http.MethodGet,
		path:     pathOf("payments", id),
		fallback: "Failed to fetch payment details",
	}, &raw)
	if err != nil {
		return PaymentSession{}, err
	}
	return decodeSession(raw)
}

func (a *PaymentAPI) Approve(ctx context.Context, id, adminNotes string) (PaymentSession, error) {
	var raw json.RawMessage
	err := a.c.do(ctx, request{
		method:   http.MethodPut,
		path:     pathOf("payments", id, "approve"),
		body:     map[string]string{"adminNotes": adminNotes},
		fallback: "Failed to approve payment",
	}, &raw)
	if err != nil {
		return PaymentSession{}, err
	}
	return decodeSession(raw)
}

func (a *PaymentAPI) Reject(ctx context.Context, id, reason, adminNotes string) (PaymentSession, error) {
	var raw json.RawMessage
	err := a.c.do(ctx, request{
		method: http.MethodPut,
		path:   pathOf("payments", id, "reject"),
		body: map[string]string{
			"rejectionReason": reason,
			"adminNotes":      adminNotes,
		},
		fallback: "Failed to reject payment",
	}, &raw)
	if err != nil {
		return PaymentSession{}, err
	}
	return decodeSession(raw)
}

// Proof は証跡ファイルの中身と Content-Type を返す
func (a *PaymentAPI) Proof(ctx context.Context, id string) ([]byte, string, error) {
	return a.c.roundTrip(ctx, request{
		method:   http.MethodGet,
		path:     pathOf("payments", id, "proof"),
		fallback: "Failed to fetch payment proof",
	})
}
