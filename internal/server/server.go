package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"medkit/internal/infra/cache"
	"medkit/internal/infra/event"
	"medkit/internal/infra/storage"
	"medkit/internal/infra/token"
	"medkit/internal/middleware"
	"medkit/internal/usecase"
	"medkit/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// サーバーが使う外部の部品（main とテストで差し替える）
type Deps struct {
	DB       *gorm.DB
	Cache    cache.Client
	CacheTTL time.Duration
	Files    storage.ObjectStorage
	Events   event.Publisher
	Issuer   *token.JWTIssuer
	Profile  usecase.StoreProfile
	Log      *zap.Logger

	AllowOrigins []string
	BcryptCost   int
}

// New は echo を組み立ててルートを登録する
func New(d Deps) *echo.Echo {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Cache == nil {
		d.Cache = cache.NewMemoryClient()
	}
	if d.Files == nil {
		d.Files = storage.NewMemoryObjectStorage()
	}
	if d.Events == nil {
		d.Events = event.NewMemoryPublisher(d.Log)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.NewRequestValidator()

	origins := d.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echomw.BodyLimit("25M"))

	RegisterRoutes(e, d)
	return e
}

// Start は ctx が終わるまで待ってから graceful shutdown する
func Start(ctx context.Context, e *echo.Echo, addr string, log *zap.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("server started", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Info("server shutting down")
	return e.Shutdown(shutdownCtx)
}
