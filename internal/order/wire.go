package order

import (
	"database/sql"

	"go.uber.org/zap"

	catalogrepo "radagast/internal/catalog/repository"
	"radagast/internal/dispatch"
	"radagast/internal/order/controller"
	orderrepo "radagast/internal/order/repository"
	"radagast/internal/order/service"
)

func NewModule(db *sql.DB, emitter dispatch.Emitter, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	buyerRepo := orderrepo.NewMySQLBuyerRepository(db)
	catalogRepo := catalogrepo.NewMySQLCatalogRepository(db)

	lifecycleSvc := service.NewLifecycleService(orderRepo, catalogRepo, buyerRepo, emitter, logger)

	return controller.NewOrderController(lifecycleSvc, logger)
}
