package catalog

import (
	"database/sql"

	"go.uber.org/zap"

	"radagast/internal/catalog/controller"
	"radagast/internal/catalog/repository"
	"radagast/internal/catalog/service"
	"radagast/internal/dispatch"
	"radagast/internal/geo"
)

func NewModule(db *sql.DB, geocoder geo.Geocoder, emitter dispatch.Emitter, logger *zap.Logger) *controller.CatalogController {
	catalogRepo := repository.NewMySQLCatalogRepository(db)

	catalogSvc := service.NewCatalogService(catalogRepo, geocoder, emitter, logger)

	return controller.NewCatalogController(catalogSvc, logger)
}
