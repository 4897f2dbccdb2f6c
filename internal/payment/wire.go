package payment

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"radagast/internal/dispatch"
	"radagast/internal/infrastructure/rediscache"
	orderrepo "radagast/internal/order/repository"
	"radagast/internal/payment/controller"
	"radagast/internal/payment/service"
)

func NewModule(
	db *sql.DB,
	cache rediscache.Cache,
	emitter dispatch.Emitter,
	webhookSecret string,
	intentTTL time.Duration,
	logger *zap.Logger,
) *controller.PaymentController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)

	paymentSvc := service.NewPaymentService(orderRepo, cache, emitter, webhookSecret, intentTTL, logger)

	return controller.NewPaymentController(paymentSvc, logger)
}
