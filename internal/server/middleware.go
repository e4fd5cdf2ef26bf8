package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mallhub-dev/mallhub/internal/auth"
	"github.com/mallhub-dev/mallhub/internal/guard"
	"github.com/mallhub-dev/mallhub/internal/models"
)

const (
	bearerPrefix = "Bearer "

	// SessionCookieName is the HttpOnly cookie carrying the session token
	SessionCookieName = "mallhub_session"
)

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidAuthFormat  = errors.New("invalid authorization header format")
	ErrEmptyToken         = errors.New("empty token")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserNotFound       = errors.New("user not found")
)

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set("session", sessionData)
}

// GetSessionData returns the session attached to the request, if any
func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get("session")
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

// extractToken pulls the session token from the request: the session cookie
// set at login (browser clients) or a bearer header (CLI clients)
func extractToken(c *gin.Context) (token, method string, err error) {
	if cookie, cerr := c.Cookie(SessionCookieName); cerr == nil && cookie != "" {
		return cookie, "cookie", nil
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", "", ErrMissingCredentials
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", "", ErrInvalidAuthFormat
	}
	token = strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", "", ErrEmptyToken
	}
	return token, "bearer", nil
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Msg(message)
	c.JSON(statusCode, gin.H{"message": message})
	c.Abort()
}

// AuthMiddleware validates the session token (cookie or bearer) and attaches
// the session to the request. Requests without a valid session are rejected
// with 401 and the login route the client should navigate to, preserving the
// requested location so the login flow can return the user afterward.
func AuthMiddleware(db *gorm.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, method, err := extractToken(c)
		if err != nil {
			var message string
			switch err {
			case ErrMissingCredentials:
				message = "Authentication required"
			case ErrInvalidAuthFormat:
				message = "Invalid authorization header format"
			case ErrEmptyToken:
				message = "Empty token"
			}
			log.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("Unauthenticated request")
			c.JSON(http.StatusUnauthorized, gin.H{
				"message":  message,
				"redirect": guard.LoginRoute,
				"from":     c.Request.URL.RequestURI(),
			})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to validate session token")
			c.JSON(http.StatusUnauthorized, gin.H{
				"message":  "Invalid or expired token",
				"redirect": guard.LoginRoute,
				"from":     c.Request.URL.RequestURI(),
			})
			c.Abort()
			return
		}

		// Verify the user still exists
		var user models.User
		if err := db.Where("id = ?", claims.UserID).First(&user).Error; err != nil {
			log.Warn().Err(err).Str("user_id", claims.UserID).Msg("User not found for valid token")
			respondWithError(c, log, http.StatusUnauthorized, ErrUserNotFound, "User not found")
			return
		}

		setSession(c, &auth.SessionData{
			UserID:     user.ID,
			Email:      user.Email,
			Role:       user.Role,
			UserType:   user.UserType,
			AuthMethod: method,
		})

		c.Next()
	}
}

// RequireMiddleware enforces a route authorization requirement on top of
// AuthMiddleware, using the same guard evaluation the client runs. Role and
// type mismatches answer 403 with the home route as the redirect target.
func RequireMiddleware(req guard.Requirement, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, exists := GetSessionData(c)
		snapshot := guard.Snapshot{Status: guard.StatusAnonymous}
		if exists {
			snapshot = guard.Snapshot{
				Status: guard.StatusAuthenticated,
				User: guard.Principal{
					Role:     sessionData.Role,
					UserType: sessionData.UserType,
				},
			}
		}

		decision := guard.Evaluate(snapshot, req, c.Request.URL.RequestURI())
		if decision.Action == guard.ActionAllow {
			c.Next()
			return
		}

		status := http.StatusForbidden
		message := "Access denied"
		if decision.Location == guard.LoginRoute {
			status = http.StatusUnauthorized
			message = "Authentication required"
		}

		log.Warn().
			Str("path", c.Request.URL.Path).
			Str("redirect", decision.Location).
			Msg("Request rejected by route guard")
		c.JSON(status, gin.H{"message": message, "redirect": decision.Location})
		c.Abort()
	}
}
