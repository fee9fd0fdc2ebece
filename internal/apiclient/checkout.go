package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// /checkout と支払い証跡のアップロード
type CheckoutAPI struct {
	c *Client
}

type sessionEnvelope struct {
	Session *PaymentSession `json:"session"`
}

func decodeSession(raw json.RawMessage) (PaymentSession, error) {
	var env sessionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return PaymentSession{}, fmt.Errorf("%w: session: %v", ErrInvalidResponse, err)
	}
	if env.Session == nil {
		return PaymentSession{}, fmt.Errorf("%w: missing session", ErrInvalidResponse)
	}
	s := *env.Session
	if s.Items == nil {
		s.Items = []SessionItem{}
	}
	return s, nil
}

// CreateSession はカートを確定してチェックアウトセッションを作る
func (a *CheckoutAPI) CreateSession(ctx context.Context, customerID, sessionID string, in CheckoutInput) (PaymentSession, error) {
	var raw json.RawMessage
	err := a.c.do(ctx, request{
		method:   http.MethodPost,
		path:     pathOf("checkout", customerID, sessionID),
		body:     in,
		fallback: "Failed to create checkout session",
	}, &raw)
	if err != nil {
		return PaymentSession{}, err
	}
	return decodeSession(raw)
}

type summaryBody struct {
	Cart      *CartDocument  `json:"cart"`
	Customer  *Customer      `json:"customer"`
	StoreInfo *StoreInfo     `json:"storeInfo"`
	BankInfo  *BankInfo      `json:"bankInfo"`
	Summary   *SummaryTotals `json:"summary"`
}

// Summary は5項目そろっていなければ不正応答として扱う
func (a *CheckoutAPI) Summary(ctx context.Context, customerID, sessionID string) (CheckoutSummary, error) {
	var body summaryBody
	err := a.c.do(ctx, request{
		method:   http.MethodGet,
		path:     pathOf("checkout", "summary", customerID, sessionID),
		fallback: "Failed to fetch checkout summary",
		statusMessages: map[int]string{
			http.StatusNotFound:            "Checkout session not found",
			http.StatusUnauthorized:        "Unauthorized access",
			http.StatusInternalServerError: "Server error occurred",
		},
	}, &body)
	if err != nil {
		return CheckoutSummary{}, err
	}

	if body.Cart == nil || body.Customer == nil || body.StoreInfo == nil || body.BankInfo == nil || body.Summary == nil {
		return CheckoutSummary{}, fmt.Errorf("%w: incomplete checkout summary", ErrInvalidResponse)
	}
	return CheckoutSummary{
		Cart:      normalizeCart(*body.Cart),
		Customer:  *body.Customer,
		StoreInfo: *body.StoreInfo,
		BankInfo:  *body.BankInfo,
		Summary:   *body.Summary,
	}, nil
}

// UploadPaymentProof は振込証跡を paymentProof フィールドで送る
func (a *CheckoutAPI) UploadPaymentProof(ctx context.Context, customerID, filename string, proof io.Reader) (PaymentSession, error) {
	form := &multipartBody{}
	form.file("paymentProof", filename, proof)

	var raw json.RawMessage
	err := a.c.do(ctx, request{
		method:   http.MethodPost,
		path:     pathOf("payments", "upload", customerID),
		form:     form,
		fallback: "Failed to upload payment proof",
	}, &raw)
	if err != nil {
		return PaymentSession{}, err
	}
	return decodeSession(raw)
}
