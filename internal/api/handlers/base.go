// Package handlers contains the gin endpoint implementations. Each
// handler owns one resource and translates between wire DTOs and the
// application services.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/craftbooks/settlement-backend/internal/api/dto"
)

// abortDomainError maps a domain error onto the response and stops the
// chain.
func abortDomainError(c *gin.Context, err error) {
	status, body := dto.FromDomainError(err)
	c.AbortWithStatusJSON(status, body)
}

// abortBadRequest rejects malformed input before it reaches a service.
func abortBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(400, dto.NewAPIError(dto.ErrCodeBadRequest, message))
}
