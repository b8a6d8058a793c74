package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/GeoCluster-Insight/internal/application/geodata"
	"github.com/turtacn/GeoCluster-Insight/internal/infrastructure/monitoring/logging"
	geodatatypes "github.com/turtacn/GeoCluster-Insight/pkg/types/geodata"
)

// GeoDataHandler serves the retrieval-and-clustering API.
type GeoDataHandler struct {
	service geodata.Service
	logger  logging.Logger
}

// NewGeoDataHandler constructs a GeoDataHandler.
func NewGeoDataHandler(service geodata.Service, logger logging.Logger) *GeoDataHandler {
	return &GeoDataHandler{
		service: service,
		logger:  logger.Named("geodata_handler"),
	}
}

// FetchGeoData handles POST /api/fetch-geo-data. The body must carry a
// non-empty list of non-blank PMIDs and a contact email; a query for which
// no dataset resolves anywhere answers 404.
func (h *GeoDataHandler) FetchGeoData(c *gin.Context) {
	var req geodatatypes.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body, provide pmids and email")
		return
	}

	if len(req.PMIDs) == 0 {
		respondBadRequest(c, "pmids must be a non-empty list")
		return
	}
	for _, pmid := range req.PMIDs {
		if strings.TrimSpace(pmid) == "" {
			respondBadRequest(c, "pmids must not contain blank entries")
			return
		}
	}
	if strings.TrimSpace(req.Email) == "" {
		respondBadRequest(c, "email must not be empty")
		return
	}

	result, err := h.service.FetchGeoData(c.Request.Context(), req.PMIDs, req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
