package cartsync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"medkit/internal/apiclient"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		kind ErrorKind
		msg  string
	}{
		{"400", &apiclient.APIError{Status: http.StatusBadRequest, Message: "bad"}, KindValidation, "bad"},
		{"401", &apiclient.APIError{Status: http.StatusUnauthorized, Message: "no"}, KindAuth, "no"},
		{"422", &apiclient.APIError{Status: http.StatusUnprocessableEntity, Message: "Only 2 units available in stock"}, KindStock, "Only 2 units available in stock"},
		{"404 is network", &apiclient.APIError{Status: http.StatusNotFound, Message: "Item not found"}, KindNetwork, "Item not found"},
		{"503 is network", &apiclient.APIError{Status: http.StatusServiceUnavailable}, KindNetwork, "fallback"},
		{"transport", fmt.Errorf("%w: refused", apiclient.ErrUnavailable), KindNetwork, "fallback"},
		{"deadline", context.DeadlineExceeded, KindNetwork, "fallback"},
		{"bad body", fmt.Errorf("%w: eof", apiclient.ErrInvalidResponse), KindUnknown, "fallback"},
		{"other", errors.New("weird"), KindUnknown, "fallback"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ce := Classify(tc.err, "fallback")
			assert.Equal(t, tc.kind, ce.Kind)
			assert.Equal(t, tc.msg, ce.Message)
		})
	}
}

func TestClassify_KeepsCartError(t *testing.T) {
	orig := &CartError{Kind: KindStock, Message: "x"}
	assert.Same(t, orig, Classify(fmt.Errorf("wrap: %w", orig), "fallback"))
	assert.Nil(t, Classify(nil, "fallback"))
}
