package response

import "github.com/gin-gonic/gin"

// GenericErrorMessage is shown when the failing layer has nothing better to say.
const GenericErrorMessage = "Une erreur est survenue. Veuillez réessayer."

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// RespondError writes an error envelope, falling back to GenericErrorMessage.
func RespondError(c *gin.Context, code int, message string, errors interface{}) {
	if message == "" {
		message = GenericErrorMessage
	}
	RespondJSON(c, "error", code, message, nil, errors)
}
