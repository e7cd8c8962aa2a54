package api

import (
	"log/slog"
	"net/http"

	"github.com/product-catalog/internal/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates a new HTTP router with all routes
func NewRouter(h *Handler, auth *middleware.AuthMiddleware, log *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// Public routes
	mux.HandleFunc("POST /api/v1/auth/register", h.Register)
	mux.HandleFunc("POST /api/v1/auth/login", h.Login)
	mux.HandleFunc("GET /api/v1/health", h.Health)

	// Catalog routes
	mux.HandleFunc("GET /api/v1/products", h.ListProducts)
	mux.HandleFunc("POST /api/v1/products", h.CreateProduct)
	mux.HandleFunc("GET /api/v1/products/available", h.ListAvailableProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", h.GetProduct)
	mux.HandleFunc("PUT /api/v1/products/{id}", h.UpdateProduct)
	mux.HandleFunc("PATCH /api/v1/products/{id}", h.PatchProduct)
	mux.HandleFunc("DELETE /api/v1/products/{id}", h.DeleteProduct)

	// Protected routes
	mux.Handle("POST /api/v1/auth/logout", auth.Authenticate(http.HandlerFunc(h.Logout)))

	// Apply global middleware
	handler := middleware.RequestID(
		middleware.Logger(log)(
			middleware.Recover(log)(
				middleware.CORS(middleware.JSON(mux)),
			),
		),
	)

	return handler
}
