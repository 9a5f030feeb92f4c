package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateJSON binds the request body into a fresh copy of the given
// prototype, runs struct validation on it, and stores the result under
// "validated_data" for the handler.
func ValidateJSON(newTarget func() interface{}) gin.HandlerFunc {
	return func(c *gin.Context) {
		v := newTarget()
		if err := c.ShouldBindJSON(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid JSON format",
				"details": err.Error(),
			})
			c.Abort()
			return
		}

		if err := validate.Struct(v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Validation failed",
				"details": err.Error(),
			})
			c.Abort()
			return
		}

		c.Set("validated_data", v)
		c.Next()
	}
}
