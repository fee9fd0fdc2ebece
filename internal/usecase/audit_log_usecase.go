package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"medkit/internal/domain/model"
	repo "medkit/internal/repository"
)

// 管理者向けの監査ログ参照
type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

// DI
func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

// 空の項目は絞り込まない。From / To は RFC3339。
type AuditLogListInput struct {
	ActorID      string
	Action       string
	ResourceType string
	ResourceID   string
	From         string
	To           string
	Page         int
	Limit        int
}

func (u *AuditLogUsecase) List(ctx context.Context, in AuditLogListInput) ([]model.AuditLog, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 200 {
		in.Limit = 50
	}

	filter := repo.AuditLogFilter{
		ActorID:    strings.TrimSpace(in.ActorID),
		ResourceID: strings.TrimSpace(in.ResourceID),
		Limit:      in.Limit,
		Offset:     (in.Page - 1) * in.Limit,
	}

	if v := strings.ToUpper(strings.TrimSpace(in.Action)); v != "" {
		action := model.AuditAction(v)
		if !action.Valid() {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
		filter.Action = &action
	}
	if v := strings.ToLower(strings.TrimSpace(in.ResourceType)); v != "" {
		rt := model.AuditResourceType(v)
		if !rt.Valid() {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid resourceType")
		}
		filter.ResourceType = &rt
	}

	var err error
	if filter.CreatedFrom, err = parseTimeParam(in.From, "from"); err != nil {
		return nil, err
	}
	if filter.CreatedTo, err = parseTimeParam(in.To, "to"); err != nil {
		return nil, err
	}
	if filter.CreatedFrom != nil && filter.CreatedTo != nil && filter.CreatedTo.Before(*filter.CreatedFrom) {
		return nil, NewHTTPError(http.StatusBadRequest, "to must not be before from")
	}

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}

func parseTimeParam(v, name string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &t, nil
}
