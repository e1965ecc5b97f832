package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// CSRFCookieName holds the per-browser token
	CSRFCookieName = "csrf_token"

	// CSRFFieldName is the hidden form field echoing the cookie
	CSRFFieldName = "csrf_token"

	// CSRFHeaderName is accepted instead of the form field
	CSRFHeaderName = "X-CSRF-Token"

	csrfContextKey = "csrf_token"
	csrfCookieAge  = 12 * 60 * 60
)

// CSRFMiddleware implements double-submit cookie protection for form posts
func CSRFMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieToken, err := c.Cookie(CSRFCookieName)
		hadCookie := err == nil && validCSRFToken(cookieToken)

		token := cookieToken
		if !hadCookie {
			token = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CSRFCookieName, token, csrfCookieAge, "/", "", secure, true)
		}
		c.Set(csrfContextKey, token)

		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		submitted := c.PostForm(CSRFFieldName)
		if submitted == "" {
			submitted = c.GetHeader(CSRFHeaderName)
		}

		if !hadCookie || subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) != 1 {
			c.String(http.StatusForbidden, "The CSRF token is missing or invalid.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CSRFToken returns the token to embed in forms rendered for this request
func CSRFToken(c *gin.Context) string {
	if v, ok := c.Get(csrfContextKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func validCSRFToken(token string) bool {
	_, err := uuid.Parse(token)
	return err == nil
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
