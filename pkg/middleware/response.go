package middleware

import "github.com/gin-gonic/gin"

// failure is the {success:false,error} body shared with the resource handlers.
type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func abortWithError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, failure{Error: msg})
}
