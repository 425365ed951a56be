package handlers

import (
	"net/http"

	"swapp/utils"

	"github.com/gin-gonic/gin"
)

// Healthz reports the latest snapshot from the health monitor.
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
