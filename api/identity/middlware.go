package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-roads/api/i"
	"github.com/beka-birhanu/vinom-roads/infrastruture/token"
	"github.com/gin-gonic/gin"
)

const (
	// ContextToken is the key used to store the player token in the Gin context.
	ContextToken = "playerToken"
	// ContextMapID is the key used to store the player's map id in the Gin context.
	ContextMapID = "playerMapID"
)

// TokenResolver maps a player token to the map the player is on.
type TokenResolver interface {
	MapIDForToken(token string) (string, bool)
}

// Authoriz accepts requests carrying a bearer token of a live player.
func Authoriz(r TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Retrieve the access token from the Authorization header.
		tok, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c, i.CodeInvalidToken, "Authorization header is required")
			return
		}

		mapID, ok := r.MapIDForToken(tok)
		if !ok {
			abortUnauthorized(c, i.CodeUnknownToken, "Player token has not been found")
			return
		}

		// Attach the player to the request context for further use.
		c.Set(ContextToken, tok)
		c.Set(ContextMapID, mapID)
		c.Next()
	}
}

// BearerToken extracts a well formed player token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}

	tok := strings.TrimSpace(parts[1])
	if !token.IsWellFormed(tok) {
		return "", false
	}
	return tok, true
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, i.ErrorResponse{Code: code, Message: message})
}
