package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Jigar634859/skyportal/internal/domain"
	"github.com/Jigar634859/skyportal/internal/wire"
)

var errForbidden = errors.New("admin credential required")

func respondError(c *gin.Context, err error) {
	if errors.Is(err, errForbidden) {
		c.AbortWithStatusJSON(http.StatusForbidden, wire.ErrorResponse{Code: wire.CodeForbidden, Message: err.Error()})
		return
	}
	status, code := wire.StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, wire.ErrorResponse{Code: code, Message: msg})
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, domain.Invalid("malformed request body: %v", err))
		return false
	}
	return true
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, domain.Invalid("invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}
