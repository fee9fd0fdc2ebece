package repository

import (
	"context"
	"time"

	"medkit/internal/domain/model"
)

type AdminRepository interface {
	Create(ctx context.Context, a *model.Admin) error
	FindByID(ctx context.Context, id string) (model.Admin, error)
	FindByEmail(ctx context.Context, email string) (model.Admin, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error

	// ログアウト時に上げる
	BumpTokenVersion(ctx context.Context, id string) error
	GetTokenVersion(ctx context.Context, id string) (int, error)
}
