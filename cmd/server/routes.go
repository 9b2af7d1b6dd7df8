package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kiliankoe/impostrico/internal/game"
)

// hostTokenHeader carries the current host's token when a new table should
// replace the running one.
const hostTokenHeader = "X-Host-Token"

func tableRoutes(r gin.IRouter, tm *game.Manager) {
	r.GET("/api/table/active", func(c *gin.Context) {
		if t := tm.Active(); t != nil {
			c.JSON(http.StatusOK, gin.H{"tableCode": t.Code, "active": t.Active()})
			return
		}
		c.Status(http.StatusNotFound)
	})
	r.POST("/api/table", func(c *gin.Context) {
		code, token, err := tm.OpenTable(c.GetHeader(hostTokenHeader))
		if errors.Is(err, game.ErrTableInUse) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"tableCode": code, "token": token})
	})
}
