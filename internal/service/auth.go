package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gitlab.com/dirk.krummacker/contact-book/internal/logger"
	"gitlab.com/dirk.krummacker/contact-book/internal/model"
	"gitlab.com/dirk.krummacker/contact-book/internal/store"
	api "gitlab.com/dirk.krummacker/contact-book/pkg/model"
)

// userKey is the gin context key of the authenticated user.
const userKey = "user"

// UserFinder resolves API tokens to users. It is implemented by *store.Store and returns
// store.ErrUserNotFound for unknown tokens.
type UserFinder interface {
	UserByToken(ctx context.Context, token string) (model.User, error)
}

// authenticate rejects requests without a valid API token with UNAUTHORIZED. Otherwise it
// stores the user in the gin context for the handlers.
func authenticate(log *slog.Logger, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := credential(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: "unauthenticated"})
			return
		}
		user, err := users.UserByToken(c.Request.Context(), token)
		if errors.Is(err, store.ErrUserNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Message: "unauthenticated"})
			return
		}
		if err != nil {
			log.Error("authentication failed", slog.Any("error", err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, api.ErrorResponse{Message: "internal server error"})
			return
		}
		c.Set(userKey, user)
		requestLog := log.With(slog.Int64("user_id", user.Id))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), requestLog))
		c.Next()
	}
}

// credential returns the API token of the request. It is taken from the bearer Authorization
// header, the 'api_token' URL parameter, or the 'api_token' form value, in this order.
func credential(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, found := strings.Cut(header, " "); found && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	if token := c.Query("api_token"); token != "" {
		return token
	}
	return c.PostForm("api_token")
}

// currentUser returns the user stored by authenticate.
func currentUser(c *gin.Context) model.User {
	user, _ := c.MustGet(userKey).(model.User)
	return user
}
