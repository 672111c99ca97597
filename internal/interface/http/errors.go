package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/starv8193-prog/ressonancia-social-v2/internal/application"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/apperrors"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/response"
)

// writeStoreError maps application and store failures onto HTTP statuses.
func writeStoreError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFound(err):
		response.Error[any](c, http.StatusNotFound, "profile not found", nil)
	case errors.Is(err, application.ErrPostNotFound),
		errors.Is(err, application.ErrGroupNotFound),
		errors.Is(err, application.ErrDynastyNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrDynastyExists):
		response.Error[any](c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, application.ErrNoMedia),
		errors.Is(err, application.ErrGroupName),
		errors.Is(err, application.ErrGroupMembers),
		errors.Is(err, application.ErrDynastyRequired):
		response.Error[any](c, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		switch apperrors.KindOf(err) {
		case apperrors.KindUnreachable:
			response.Error[any](c, http.StatusServiceUnavailable, "storage unavailable", gin.H{"kind": apperrors.KindUnreachable})
		case apperrors.KindMalformed:
			response.Error[any](c, http.StatusInternalServerError, "stored record is corrupt", gin.H{"kind": apperrors.KindMalformed})
		default:
			response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
		}
	}
}
