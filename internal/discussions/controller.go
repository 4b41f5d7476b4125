package discussions

import (
	"errors"
	"fmt"
	"net/http"

	"florist/internal/catalog"
	"florist/internal/reservations"
	"florist/internal/shared/middleware"
	"florist/internal/shared/utils/response"
	"florist/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateDiscussion godoc
// @Summary      Ask for a quote on an on-quote service
// @Tags         discussions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  CreateDiscussionRequest  true  "Quote request"
// @Success      201  {object}  response.StandardApiResponse
// @Failure      400  {object}  response.StandardApiResponse
// @Router       /discussions [post]
func (ctrl *Controller) CreateDiscussion(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "Authentification requise", nil)
		return
	}

	var req CreateDiscussionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Veuillez renseigner tous les champs obligatoires", err.Error())
		return
	}

	discussion, err := ctrl.service.OpenDiscussion(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Demande de devis envoyée avec succès", discussion, nil)
}

// GetUserDiscussions godoc
// @Summary      Current user's quote discussions
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.StandardApiResponse
// @Router       /users/discussions [get]
func (ctrl *Controller) GetUserDiscussions(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "Authentification requise", nil)
		return
	}

	list, err := ctrl.service.ListUserDiscussions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Discussions récupérées avec succès", DiscussionListResponse{
		Discussions: list,
		Count:       len(list),
	}, nil)
}

// FinalizeDiscussion godoc
// @Summary      Accept or refuse the admin counter-offer
// @Tags         discussions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string           true  "Discussion ID"
// @Param        body  body  FinalizeRequest  true  "valider | annuler"
// @Success      200  {object}  response.StandardApiResponse
// @Failure      409  {object}  response.StandardApiResponse
// @Router       /discussions/{id}/finalize [post]
func (ctrl *Controller) FinalizeDiscussion(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "Authentification requise", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "Identifiant de discussion invalide", nil)
		return
	}

	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Action inconnue, utilisez valider ou annuler", err.Error())
		return
	}

	result, err := ctrl.service.Finalize(c.Request.Context(), userID, id, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Devis refusé, la discussion est annulée"
	if req.Action == ActionAccept {
		message = "Devis accepté, votre réservation est confirmée"
	}
	response.RespondJSON(c, "success", http.StatusOK, message, result, nil)
}

// ListDiscussions godoc
// @Summary      All quote discussions (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "réponse_client | réponse_admin | finalisé | annulé"
// @Success      200  {object}  response.StandardApiResponse
// @Router       /admin/discussions [get]
func (ctrl *Controller) ListDiscussions(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Paramètres de recherche invalides", err.Error())
		return
	}

	list, err := ctrl.service.ListDiscussions(c.Request.Context(), ListFilter{
		Status: Status(query.Status),
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Discussions récupérées avec succès", DiscussionListResponse{
		Discussions: list,
		Count:       len(list),
	}, nil)
}

// RespondDiscussion godoc
// @Summary      Send a counter-offer (admin)
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string          true  "Discussion ID"
// @Param        body  body  RespondRequest  true  "Counter-offer"
// @Success      200  {object}  response.StandardApiResponse
// @Router       /admin/discussions/{id}/respond [post]
func (ctrl *Controller) RespondDiscussion(c *gin.Context) {
	adminID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "Authentification requise", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "Identifiant de discussion invalide", nil)
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Requête invalide", err.Error())
		return
	}

	discussion, err := ctrl.service.Respond(c.Request.Context(), adminID, id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Proposition envoyée au client", discussion, nil)
}

func respondError(c *gin.Context, err error) {
	var transitionErr *reservations.TransitionError
	switch {
	case errors.As(err, &transitionErr):
		response.RespondError(c, http.StatusConflict,
			fmt.Sprintf("Cette discussion n'est plus modifiable (statut actuel : %s)", transitionErr.Current),
			gin.H{"current_status": transitionErr.Current})
	case errors.Is(err, ErrDiscussionNotFound):
		response.RespondError(c, http.StatusNotFound, "Discussion introuvable", nil)
	case errors.Is(err, catalog.ErrServiceNotFound):
		response.RespondError(c, http.StatusNotFound, "Service introuvable", nil)
	case errors.Is(err, ErrNotOwner):
		response.RespondError(c, http.StatusForbidden, "Cette discussion ne vous appartient pas", nil)
	case errors.Is(err, ErrServiceNotQuoteEligible):
		response.RespondError(c, http.StatusBadRequest, "Ce service a un prix fixe, réservez-le directement", nil)
	case errors.Is(err, ErrServiceUnavailable):
		response.RespondError(c, http.StatusBadRequest, "Ce service n'est pas disponible actuellement", nil)
	case errors.Is(err, ErrInvalidPrice):
		response.RespondError(c, http.StatusBadRequest, "Le prix proposé doit être un montant positif en XAF", nil)
	case errors.Is(err, ErrInvalidAction):
		response.RespondError(c, http.StatusBadRequest, "Action inconnue, utilisez valider ou annuler", nil)
	case errors.Is(err, ErrInvalidStatusFilter):
		response.RespondError(c, http.StatusBadRequest, "Statut inconnu", nil)
	case errors.Is(err, reservations.ErrInvalidEventDate):
		response.RespondError(c, http.StatusBadRequest, "La date de l'événement est invalide", nil)
	case errors.Is(err, reservations.ErrEventDateInPast):
		response.RespondError(c, http.StatusBadRequest, "La date de l'événement ne peut pas être dans le passé", nil)
	default:
		logger.GetDefault().LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondError(c, http.StatusInternalServerError, "", nil)
	}
}
