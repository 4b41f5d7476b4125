package notifications

import (
	"net/http"
	"strconv"

	"florist/internal/shared/middleware"
	"florist/internal/shared/utils/response"
	"florist/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	inbox Inbox
}

// NewController accepts a nil inbox; the feed is then always empty.
func NewController(inbox Inbox) *Controller {
	return &Controller{inbox: inbox}
}

// ListNotifications godoc
// @Summary      Current user's notification feed
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query  int  false  "Max entries"
// @Success      200  {object}  response.StandardApiResponse
// @Router       /users/notifications [get]
func (ctrl *Controller) ListNotifications(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.RespondError(c, http.StatusUnauthorized, "Authentification requise", nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items := []Notification{}
	if ctrl.inbox != nil {
		list, err := ctrl.inbox.List(c.Request.Context(), userID, limit)
		if err != nil {
			logger.GetDefault().LogHTTPError(c, err, http.StatusInternalServerError)
			response.RespondError(c, http.StatusInternalServerError, "Impossible de charger les notifications", nil)
			return
		}
		items = list
	}

	response.RespondJSON(c, "success", http.StatusOK, "Notifications récupérées avec succès", NotificationListResponse{
		Notifications: items,
		Count:         len(items),
	}, nil)
}
