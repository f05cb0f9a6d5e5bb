package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/matias-herrera/repairshop-api/config"
	"github.com/matias-herrera/repairshop-api/models"
)

// sessionUserKey is the session field holding the signed-in user's id.
const sessionUserKey = "user_id"

// contextUserKey is the gin context field holding the loaded user.
const contextUserKey = "current_user"

// RequireLogin is a middleware that rejects requests without a valid
// session and loads the signed-in user into the request context.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		raw := session.Get(sessionUserKey)
		userID, ok := raw.(uint)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			c.Abort()
			return
		}

		db := config.GetDB()
		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			// Stale session for a deleted user; clear it.
			session.Delete(sessionUserKey)
			_ = session.Save()
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Session is no longer valid",
				},
			})
			c.Abort()
			return
		}

		c.Set(contextUserKey, &user)
		c.Next()
	}
}

// LoginUser stores the user's id in the session.
func LoginUser(c *gin.Context, user *models.User) error {
	session := sessions.Default(c)
	session.Set(sessionUserKey, user.ID)
	return session.Save()
}

// LogoutUser clears the session.
func LogoutUser(c *gin.Context) error {
	session := sessions.Default(c)
	session.Clear()
	return session.Save()
}

// CurrentUser extracts the signed-in user from the Gin context
func CurrentUser(c *gin.Context) (*models.User, error) {
	raw, exists := c.Get(contextUserKey)
	if !exists {
		return nil, &AuthError{Code: "MISSING_USER", Message: "User not found in context"}
	}

	user, ok := raw.(*models.User)
	if !ok {
		return nil, &AuthError{Code: "INVALID_USER", Message: "User is not in the expected format"}
	}

	return user, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
