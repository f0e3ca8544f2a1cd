package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/globalaidnetwork/internal/content"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondValidation writes a 400 carrying field and block errors when err is a
// validation failure. It reports whether it handled err.
func respondValidation(c *gin.Context, err error) bool {
	var verr *content.ValidationError
	if !errors.As(err, &verr) {
		return false
	}

	payload := gin.H{"error": "validation failed"}
	if len(verr.Fields) > 0 {
		payload["fields"] = verr.Fields
	}
	if len(verr.Blocks) > 0 {
		blocks := make(map[string]content.FieldErrors, len(verr.Blocks))
		for index, fields := range verr.Blocks {
			blocks[strconv.Itoa(index)] = fields
		}
		payload["blocks"] = blocks
	}
	c.JSON(http.StatusBadRequest, payload)
	return true
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parsePositiveInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
