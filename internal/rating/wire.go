package rating

import (
	"database/sql"

	"go.uber.org/zap"

	catalogrepo "radagast/internal/catalog/repository"
	"radagast/internal/dispatch"
	orderrepo "radagast/internal/order/repository"
	"radagast/internal/rating/controller"
	"radagast/internal/rating/repository"
	"radagast/internal/rating/service"
)

func NewModule(db *sql.DB, emitter dispatch.Emitter, logger *zap.Logger) *controller.ReviewController {
	reviewRepo := repository.NewMySQLReviewRepository(db)
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	catalogRepo := catalogrepo.NewMySQLCatalogRepository(db)

	reviewSvc := service.NewReviewService(reviewRepo, orderRepo, catalogRepo, emitter, logger)

	return controller.NewReviewController(reviewSvc, logger)
}
