package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/globalaidnetwork/internal/content"
)

// GetSchema describes blocks, snippets and page panels for admin clients.
func (a *API) GetSchema(c *gin.Context) {
	c.JSON(http.StatusOK, content.AdminSchema())
}
