package middleware

import (
	"net/http"

	"sporcu-lisans-takip/pkg/errutil"

	"github.com/gin-gonic/gin"
)

// Error renders any error a handler attached via c.Error. BaseError keeps its
// mapped status; everything else is an opaque 500.
func Error() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		err := c.Errors.Last()
		if err == nil || c.Writer.Written() {
			return
		}

		if v, ok := err.Err.(errutil.BaseError); ok {
			c.JSON(v.Code.HTTPStatus(), v.JSON())
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{"code": errutil.StatusInternal, "message": "internal error"},
		})
	}
}
