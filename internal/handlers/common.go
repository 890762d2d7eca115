package handlers

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"radiology-app-server/internal/middleware"
	"radiology-app-server/internal/models"
	"radiology-app-server/internal/services"
	"radiology-app-server/internal/utils"
)

// respondError translates service-layer errors into HTTP responses. Store
// failures never reach the caller as-is: they are logged server-side and
// rendered as a generic message.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		utils.BadRequest(c, validationErr.Message)
	case errors.Is(err, services.ErrDuplicateEmail):
		utils.Conflict(c, "Email already registered!")
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.Unauthorized(c, "Invalid email or password!")
	case errors.Is(err, services.ErrForbidden):
		utils.Forbidden(c, "You do not have permission to perform this action.")
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(c, "Scan not found!")
	case errors.Is(err, services.ErrInvalidState):
		utils.Conflict(c, "Operation not valid for the current scan status.")
	default:
		log.Printf("request failed: %v", err)
		utils.InternalServerError(c, "Something went wrong. Please try again later.")
	}
}

// principal fetches the authenticated principal or writes a 401.
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		utils.Unauthorized(c, "Please login to access this page.")
	}
	return p, ok
}
