package cartsync

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"medkit/internal/apiclient"
)

// ErrorKind はカート操作の失敗の分類
type ErrorKind string

const (
	KindNetwork    ErrorKind = "NETWORK"
	KindValidation ErrorKind = "VALIDATION"
	KindAuth       ErrorKind = "AUTH"
	KindStock      ErrorKind = "STOCK"
	KindUnknown    ErrorKind = "UNKNOWN"
)

// CartError は画面に出すための分類済みエラー。一定時間で消える。
type CartError struct {
	Kind    ErrorKind
	Message string
}

func (e *CartError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func AsCartError(err error) (*CartError, bool) {
	var ce *CartError
	ok := errors.As(err, &ce)
	return ce, ok
}

// KindForStatus は HTTP ステータスの分類（400/401/422 以外はすべて NETWORK）
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusUnprocessableEntity:
		return KindStock
	default:
		return KindNetwork
	}
}

// Classify は API 境界で一度だけ呼ぶ。生の通信エラーはここで CartError になる。
func Classify(err error, fallback string) *CartError {
	if err == nil {
		return nil
	}
	if ce, ok := AsCartError(err); ok {
		return ce
	}
	if ae, ok := apiclient.AsAPIError(err); ok {
		msg := ae.Message
		if msg == "" {
			msg = fallback
		}
		return &CartError{Kind: KindForStatus(ae.Status), Message: msg}
	}

	switch {
	case errors.Is(err, apiclient.ErrUnavailable),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return &CartError{Kind: KindNetwork, Message: fallback}
	default:
		return &CartError{Kind: KindUnknown, Message: fallback}
	}
}

func stockError(available int) *CartError {
	return &CartError{Kind: KindStock, Message: fmt.Sprintf("Only %d units available in stock", available)}
}

func quantityError() *CartError {
	return &CartError{Kind: KindValidation, Message: "Quantity must be at least 1"}
}
