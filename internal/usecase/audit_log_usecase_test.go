package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"medkit/internal/domain/model"
	"medkit/internal/repository"
	"medkit/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuditLogUsecase_List_BuildsFilter(t *testing.T) {
	audit := new(MockAuditLogRepo)
	uc := usecase.NewAuditLogUsecase(audit)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	audit.On("List", mock.Anything, mock.MatchedBy(func(f repository.AuditLogFilter) bool {
		return f.ActorID == "a-1" &&
			f.Action != nil && *f.Action == model.AuditActionApprovePayment &&
			f.ResourceType != nil && *f.ResourceType == model.AuditResourcePayment &&
			f.CreatedFrom != nil && f.CreatedFrom.Equal(from) &&
			f.CreatedTo != nil && f.CreatedTo.Equal(to) &&
			f.Limit == 10 && f.Offset == 20
	})).Return([]model.AuditLog{{ActorID: "a-1", Action: model.AuditActionApprovePayment}}, nil).Once()

	logs, err := uc.List(context.Background(), usecase.AuditLogListInput{
		ActorID:      " a-1 ",
		Action:       "approve_payment",
		ResourceType: "PAYMENT",
		From:         "2026-01-01T00:00:00Z",
		To:           "2026-01-31T00:00:00Z",
		Page:         3,
		Limit:        10,
	})

	require.NoError(t, err)
	assert.Len(t, logs, 1)
	audit.AssertExpectations(t)
}

func TestAuditLogUsecase_List_Defaults(t *testing.T) {
	audit := new(MockAuditLogRepo)
	uc := usecase.NewAuditLogUsecase(audit)
	audit.On("List", mock.Anything, repository.AuditLogFilter{Limit: 50}).Return(nil, nil).Once()

	logs, err := uc.List(context.Background(), usecase.AuditLogListInput{})

	require.NoError(t, err)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
}

func TestAuditLogUsecase_List_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   usecase.AuditLogListInput
		want string
	}{
		{name: "unknown action", in: usecase.AuditLogListInput{Action: "DROP_TABLE"}, want: "invalid action"},
		{name: "unknown resource", in: usecase.AuditLogListInput{ResourceType: "customer"}, want: "invalid resourceType"},
		{name: "bad from", in: usecase.AuditLogListInput{From: "yesterday"}, want: "invalid from"},
		{name: "reversed range", in: usecase.AuditLogListInput{From: "2026-02-01T00:00:00Z", To: "2026-01-01T00:00:00Z"}, want: "to must not be before from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := new(MockAuditLogRepo)
			uc := usecase.NewAuditLogUsecase(audit)

			_, err := uc.List(context.Background(), tt.in)

			requireHTTPError(t, err, http.StatusBadRequest, tt.want)
			audit.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
		})
	}
}

func TestAuditLogUsecase_List_DBError(t *testing.T) {
	audit := new(MockAuditLogRepo)
	uc := usecase.NewAuditLogUsecase(audit)
	audit.On("List", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()

	_, err := uc.List(context.Background(), usecase.AuditLogListInput{})

	requireHTTPError(t, err, http.StatusInternalServerError, "db error")
}
