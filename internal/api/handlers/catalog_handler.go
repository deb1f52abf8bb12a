package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"esom-requisition-server/internal/catalog"
)

// CatalogHandler serves the field catalogs so form clients build their
// selects from the same lists the server validates against.
type CatalogHandler struct{}

func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"placeholder":      catalog.Sentinel,
		"locations":        catalog.Locations,
		"originTypes":      catalog.OriginTypes,
		"agreementTypes":   catalog.AgreementTypes,
		"destinationTypes": catalog.DestinationTypes,
		"subInventories":   catalog.SubInventories,
		"usageIntents":     catalog.UsageIntents,
		"objectives":       catalog.Objectives,
	})
}
