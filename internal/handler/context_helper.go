package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bmc-class/bmc-api/internal/middleware"
	"github.com/bmc-class/bmc-api/internal/models"
)

func paginationOf(page, pageSize, total int) *models.Pagination {
	return &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}
}

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
