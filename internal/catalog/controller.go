package catalog

import (
	"errors"
	"net/http"

	"florist/internal/shared/utils/response"
	"florist/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	catalog Catalog
}

func NewController(catalog Catalog) *Controller {
	return &Controller{catalog: catalog}
}

// ListServices godoc
// @Summary      List services
// @Description  Active catalog services. tarification=Sur devis keeps quote-eligible services only.
// @Tags         services
// @Produce      json
// @Param        tarification  query  string  false  "Prix fixe | Sur devis"
// @Param        category      query  string  false  "Category"
// @Success      200  {object}  response.StandardApiResponse
// @Router       /services [get]
func (ctrl *Controller) ListServices(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Paramètres de recherche invalides", err.Error())
		return
	}

	raw := query.Tarification
	if raw == "" {
		raw = query.PricingMode
	}
	mode, ok := ParsePricingMode(raw)
	if !ok {
		response.RespondError(c, http.StatusBadRequest, "Tarification inconnue", nil)
		return
	}

	filter := ListFilter{
		PricingMode:   mode,
		Category:      query.Category,
		OnlyAvailable: !query.All,
	}

	services, err := ctrl.catalog.ListServices(c.Request.Context(), filter)
	if err != nil {
		logger.GetDefault().LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondError(c, http.StatusInternalServerError, "Impossible de charger les services", nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Services récupérés avec succès", ServiceListResponse{
		Services: services,
		Count:    len(services),
	}, nil)
}

// GetService godoc
// @Summary      Get a service
// @Tags         services
// @Produce      json
// @Param        id   path  string  true  "Service ID"
// @Success      200  {object}  response.StandardApiResponse
// @Failure      404  {object}  response.StandardApiResponse
// @Router       /services/{id} [get]
func (ctrl *Controller) GetService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "Identifiant de service invalide", nil)
		return
	}

	service, err := ctrl.catalog.GetService(c.Request.Context(), id)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Service récupéré avec succès", service, nil)
}

// CreateService godoc
// @Summary      Create a service
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  CreateServiceRequest  true  "Service"
// @Success      201  {object}  response.StandardApiResponse
// @Router       /admin/services [post]
func (ctrl *Controller) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Requête invalide", err.Error())
		return
	}

	service, err := ctrl.catalog.CreateService(c.Request.Context(), req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Service créé avec succès", service, nil)
}

// UpdateService godoc
// @Summary      Update a service
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                true  "Service ID"
// @Param        body  body  UpdateServiceRequest  true  "Fields to change"
// @Success      200  {object}  response.StandardApiResponse
// @Router       /admin/services/{id} [put]
func (ctrl *Controller) UpdateService(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "Identifiant de service invalide", nil)
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Requête invalide", err.Error())
		return
	}

	service, err := ctrl.catalog.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		ctrl.respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Service mis à jour avec succès", service, nil)
}

func (ctrl *Controller) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrServiceNotFound):
		response.RespondError(c, http.StatusNotFound, "Service introuvable", nil)
	case errors.Is(err, ErrFixedPriceRequired):
		response.RespondError(c, http.StatusBadRequest, "Un service à prix fixe doit avoir un prix positif", nil)
	case errors.Is(err, ErrInvalidPricingMode):
		response.RespondError(c, http.StatusBadRequest, "Tarification inconnue", nil)
	default:
		logger.GetDefault().LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondError(c, http.StatusInternalServerError, "", nil)
	}
}
