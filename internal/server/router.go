package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ap-storybook-web/internal/server/handlers"
)

// NewRouter は、ミドルウェアとルーティングを統合した http.Handler を構築します。
func NewRouter(h *handlers.Handler) http.Handler {
	r := chi.NewRouter()

	setupCommonMiddleware(r)
	setupRoutes(r, h)

	return r
}

func setupCommonMiddleware(r *chi.Mux) {
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.CleanPath)
}

func setupRoutes(r chi.Router, h *handlers.Handler) {
	// --- 物語生成 ---
	r.Post("/generate", h.HandleGenerate)
	r.Get("/generate", h.DescribeGenerate)

	// --- リファレンス画像アップロード ---
	r.Post("/upload-image", h.HandleUpload)
	r.Get("/upload-image", h.DescribeUpload)
}
