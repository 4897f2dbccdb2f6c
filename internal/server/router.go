package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	catalogctrl "radagast/internal/catalog/controller"
	discoveryctrl "radagast/internal/discovery/controller"
	"radagast/internal/dispatch"
	orderctrl "radagast/internal/order/controller"
	paymentctrl "radagast/internal/payment/controller"
	ratingctrl "radagast/internal/rating/controller"
)

// NewRouter wires every module surface plus the realtime endpoint onto a
// single chi mux. Party identity travels in the X-User-Id header; the
// gateway callback on /payments/verify is the only unauthenticated mutation.
func NewRouter(
	orders *orderctrl.OrderController,
	catalog *catalogctrl.CatalogController,
	discovery *discoveryctrl.DiscoveryController,
	payments *paymentctrl.PaymentController,
	reviews *ratingctrl.ReviewController,
	hub *dispatch.Hub,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orders.Create)
		r.Get("/{orderId}", orders.Get)
		r.Post("/{orderId}/approve", orders.Approve)
		r.Post("/{orderId}/reject", orders.Reject)
		r.Post("/{orderId}/dispatch", orders.Dispatch)
		r.Post("/{orderId}/deliver", orders.Deliver)
		r.Post("/{orderId}/cancel", orders.Cancel)
		r.Post("/{orderId}/reviews", reviews.Submit)
	})

	r.Route("/vendors", func(r chi.Router) {
		r.Get("/discover", discovery.Discover)
		r.Get("/{vendorId}/reviews", reviews.ListForVendor)
		r.Get("/{vendorId}/items", catalog.ListItems)
		r.Post("/{vendorId}/items", catalog.AddItem)
		r.Put("/{vendorId}/items/{itemId}", catalog.UpdateItem)
		r.Put("/{vendorId}/location", catalog.UpdateLocation)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/intent", payments.CreateIntent)
		r.Post("/verify", payments.Verify)
	})

	r.Get("/ws", hub.HandleConnection)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request handled",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
