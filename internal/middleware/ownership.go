package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"studiobook/internal/domain"
	"studiobook/internal/pkg/response"
)

type studioReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Studio, error)
}

// OwnershipChecker verifies that the authenticated user owns the studio
// addressed by the route.
type OwnershipChecker struct {
	studios studioReader
}

func NewOwnershipChecker(studios studioReader) *OwnershipChecker {
	return &OwnershipChecker{studios: studios}
}

// CheckStudioOwnership expects the studio ID in URL param "id".
func (oc *OwnershipChecker) CheckStudioOwnership() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.AbortError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		studioID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			response.AbortError(c, http.StatusBadRequest, "INVALID_ID", "Invalid studio ID")
			return
		}

		studio, err := oc.studios.GetByID(c.Request.Context(), studioID)
		if err != nil {
			response.AbortError(c, http.StatusNotFound, "NOT_FOUND", "Studio not found")
			return
		}

		if studio.OwnerID != userID {
			response.AbortError(c, http.StatusForbidden, "FORBIDDEN", "You don't own this studio")
			return
		}

		c.Next()
	}
}
