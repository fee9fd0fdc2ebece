package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// 通信そのものが失敗した（接続不可・タイムアウト・キャンセル）
	ErrUnavailable = errors.New("apiclient: service unavailable")

	// 2xx だが本文を解釈できなかった
	ErrInvalidResponse = errors.New("apiclient: invalid response")
)

// APIError は 4xx/5xx 応答。Message は本文の message / error から取る。
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func AsAPIError(err error) (*APIError, bool) {
	var ae *APIError
	ok := errors.As(err, &ae)
	return ae, ok
}

// StatusOf は APIError なら HTTP ステータス、それ以外は 0。
func StatusOf(err error) int {
	if ae, ok := AsAPIError(err); ok {
		return ae.Status
	}
	return 0
}

// MessageOf は利用者に見せる文言を返す。
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if ae, ok := AsAPIError(err); ok && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Errors  []struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	} `json:"errors"`
}

// 応答本文からメッセージを抜く。無ければ fallback。
func extractMessage(body []byte, fallback string) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return fallback
	}
	switch {
	case strings.TrimSpace(eb.Message) != "":
		return eb.Message
	case strings.TrimSpace(eb.Error) != "":
		return eb.Error
	case len(eb.Errors) > 0 && eb.Errors[0].Msg != "":
		return eb.Errors[0].Msg
	case len(eb.Errors) > 0 && eb.Errors[0].Message != "":
		return eb.Errors[0].Message
	}
	return fallback
}

func newAPIError(status int, body []byte, r request) *APIError {
	if msg, ok := r.statusMessages[status]; ok {
		return &APIError{Status: status, Message: msg}
	}
	if status >= http.StatusInternalServerError {
		if msg, ok := r.statusMessages[http.StatusInternalServerError]; ok {
			return &APIError{Status: status, Message: msg}
		}
	}
	return &APIError{Status: status, Message: extractMessage(body, r.fallback)}
}
