package controller

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/mithunreddyy/valuva-sub002/internal/errors"
	"github.com/mithunreddyy/valuva-sub002/internal/middleware"
)

// requireUserID returns the authenticated user or writes a 401
func requireUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Warn("Unauthenticated request reached a protected handler", map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		apperrors.Unauthorized(c, "")
		return 0, false
	}
	return userID, true
}

// idParam parses a positive numeric path parameter or writes a 400
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// bindJSON binds the request body or writes a 400 carrying the binding error
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		apperrors.RespondWithValidationError(c, map[string]string{"body": err.Error()})
		return false
	}
	return true
}

// respondError logs and maps a service error. Domain rejections are expected
// traffic and log at warn.
func respondError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)
	if _, ok := apperrors.AsDomain(err); ok {
		log.Warn("Request rejected: "+context, map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		log.Error("Failed to "+context, err)
	}
	apperrors.RespondWithServiceError(c, err, context)
}

// pageParams reads page and limit; zero means "use the service default"
func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return page, limit
}

func queryUint(c *gin.Context, key string) *uint {
	v, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return nil
	}
	u := uint(v)
	return &u
}

func queryInt(c *gin.Context, key string) *int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return nil
	}
	return &v
}

func queryFloat(c *gin.Context, key string) *float64 {
	v, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return nil
	}
	return &v
}

func queryBool(c *gin.Context, key string) *bool {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

const dateLayout = "2006-01-02"

// queryDate accepts RFC3339 or a bare date. A bare date used as an upper
// bound covers the whole day. Writes a 400 on malformed input.
func queryDate(c *gin.Context, key string, endOfDay bool) (*time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid "+key+": expected YYYY-MM-DD or RFC3339")
		return nil, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}
