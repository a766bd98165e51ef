package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/habitflow/internal/metrics"
	"github.com/hitoshi/habitflow/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	IdentityResolver  middleware.UserResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// メトリクス
	MetricsGatherer prometheus.Gatherer
	MetricsRecorder middleware.HTTPStatusRecorder

	// サービス
	HabitService HabitServiceInterface
	UserService  UserServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS → DemoIdentity → RateLimit(General)
//
// /health と /metrics はアイデンティティ解決の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default(), deps.MetricsRecorder))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	habitHandler := NewHabitHandler(deps.HabitService)
	userHandler := NewUserHandler(deps.UserService)

	// --- アイデンティティ解決不要のルート ---

	r.Get("/health", NewHealthHandler(deps.HealthChecker))

	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- デモユーザー解決が必要なルート ---
	// ミドルウェアスタック: DemoIdentity → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewDemoIdentityMiddleware(deps.IdentityResolver))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.GeneralMiddleware())
		}

		// ユーザー情報
		r.Get("/api/me", userHandler.Me)

		// 習慣管理
		r.Route("/api/habits", func(r chi.Router) {
			r.Get("/", habitHandler.ListHabits)
			r.Post("/", habitHandler.CreateHabit)

			// GET /api/habits/summary - 7日間サマリー
			r.Get("/summary", habitHandler.Summary)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", habitHandler.GetHabit)
				r.Patch("/", habitHandler.UpdateHabit)
				r.Delete("/", habitHandler.DeleteHabit)

				// POST /api/habits/:id/toggle-today - トグル専用レート制限を追加
				if deps.RateLimiter != nil {
					r.With(deps.RateLimiter.ToggleMiddleware()).Post("/toggle-today", habitHandler.ToggleToday)
				} else {
					r.Post("/toggle-today", habitHandler.ToggleToday)
				}
			})
		})
	})

	return r
}

// NewHealthHandler はデータベース接続を確認するヘルスチェックハンドラーを返す。
func NewHealthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if checker != nil {
			if err := checker.PingContext(ctx); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}
