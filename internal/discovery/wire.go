package discovery

import (
	"database/sql"

	"go.uber.org/zap"

	catalogrepo "radagast/internal/catalog/repository"
	"radagast/internal/discovery/controller"
	"radagast/internal/discovery/service"
	"radagast/internal/translate"
)

func NewModule(db *sql.DB, translator translate.Translator, defaultDistanceKm float64, logger *zap.Logger) *controller.DiscoveryController {
	catalogRepo := catalogrepo.NewMySQLCatalogRepository(db)

	discoverySvc := service.NewDiscoveryService(catalogRepo, translator, defaultDistanceKm, logger)

	return controller.NewDiscoveryController(discoverySvc, logger)
}
