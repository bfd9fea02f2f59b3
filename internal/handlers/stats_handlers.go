package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (api *API) dashboard(c *gin.Context) {
	snapshot, err := api.stats.Snapshot(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
