package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/authkeeper/internal/common"
)

// userIDKey is the gin context key carrying the authenticated subject ID.
const userIDKey = "userID"

// authRequired gates protected routes on a valid bearer token. The header
// must carry the exact "Bearer " scheme prefix; the remainder is verified by
// the token codec. All verification failures collapse to one unauthorized
// response so an external observer cannot tell an expired token from a
// forged one. On success the subject user ID is attached to the request
// context; no user row is fetched here.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {

		header := c.GetHeader(common.AuthHeaderName)
		if header == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok {
			abortUnauthorized(c, "invalid authorization format")
			return
		}

		userID, err := s.codec.Verify(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{
		Success: false,
		Error:   errorBody{Message: message, Code: "UNAUTHORIZED"},
	})
}
