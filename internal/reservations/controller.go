package reservations

import (
	"errors"
	"fmt"
	"net/http"

	"florist/internal/catalog"
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

// CreateReservation godoc
// @Summary      Book a fixed-price service
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  CreateReservationRequest  true  "Reservation"
// @Success      201  {object}  response.StandardApiResponse
// @Failure      400  {object}  response.StandardApiResponse
// @Router       /reservations [post]
func (ctrl *Controller) CreateReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "Authentification requise", nil)
		return
	}

	var req CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Veuillez renseigner tous les champs obligatoires", err.Error())
		return
	}

	reservation, err := ctrl.service.CreateReservation(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Réservation enregistrée avec succès", reservation, nil)
}

// GetUserReservations godoc
// @Summary      Current user's reservations
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.StandardApiResponse
// @Router       /users/reservations [get]
func (ctrl *Controller) GetUserReservations(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "Authentification requise", nil)
		return
	}

	list, err := ctrl.service.ListUserReservations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Réservations récupérées avec succès", ReservationListResponse{
		Reservations: list,
		Count:        len(list),
	}, nil)
}

// CancelReservation godoc
// @Summary      Cancel one of the user's reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Reservation ID"
// @Success      200  {object}  response.StandardApiResponse
// @Failure      409  {object}  response.StandardApiResponse
// @Router       /reservations/{id}/cancel [post]
func (ctrl *Controller) CancelReservation(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "Authentification requise", nil)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "Identifiant de réservation invalide", nil)
		return
	}

	reservation, err := ctrl.service.CancelReservation(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Réservation annulée", reservation, nil)
}

// ListReservations godoc
// @Summary      All reservations (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "réservé | finalisé | annulé"
// @Success      200  {object}  response.StandardApiResponse
// @Router       /admin/reservations [get]
func (ctrl *Controller) ListReservations(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Paramètres de recherche invalides", err.Error())
		return
	}

	list, err := ctrl.service.ListReservations(c.Request.Context(), ListFilter{
		Status: Status(query.Status),
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Réservations récupérées avec succès", ReservationListResponse{
		Reservations: list,
		Count:        len(list),
	}, nil)
}

// CompleteReservation godoc
// @Summary      Mark a reservation as delivered (admin)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Reservation ID"
// @Success      200  {object}  response.StandardApiResponse
// @Router       /admin/reservations/{id}/complete [post]
func (ctrl *Controller) CompleteReservation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "Identifiant de réservation invalide", nil)
		return
	}

	reservation, err := ctrl.service.CompleteReservation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Réservation finalisée", reservation, nil)
}

func respondError(c *gin.Context, err error) {
	var transitionErr *TransitionError
	switch {
	case errors.As(err, &transitionErr):
		response.RespondError(c, http.StatusConflict,
			fmt.Sprintf("Cette réservation ne peut plus être modifiée (statut actuel : %s)", transitionErr.Current),
			gin.H{"current_status": transitionErr.Current})
	case errors.Is(err, ErrReservationNotFound):
		response.RespondError(c, http.StatusNotFound, "Réservation introuvable", nil)
	case errors.Is(err, catalog.ErrServiceNotFound):
		response.RespondError(c, http.StatusNotFound, "Service introuvable", nil)
	case errors.Is(err, ErrNotOwner):
		response.RespondError(c, http.StatusForbidden, "Cette réservation ne vous appartient pas", nil)
	case errors.Is(err, ErrServiceRequiresQuote):
		response.RespondError(c, http.StatusBadRequest, "Ce service est disponible uniquement sur devis", nil)
	case errors.Is(err, ErrServiceUnavailable):
		response.RespondError(c, http.StatusBadRequest, "Ce service n'est pas disponible actuellement", nil)
	case errors.Is(err, ErrInvalidEventDate):
		response.RespondError(c, http.StatusBadRequest, "La date de l'événement est invalide", nil)
	case errors.Is(err, ErrEventDateInPast):
		response.RespondError(c, http.StatusBadRequest, "La date de l'événement ne peut pas être dans le passé", nil)
	case errors.Is(err, ErrInvalidStatusFilter):
		response.RespondError(c, http.StatusBadRequest, "Statut inconnu", nil)
	default:
		logger.GetDefault().LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondError(c, http.StatusInternalServerError, "", nil)
	}
}
