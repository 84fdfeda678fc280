package main

import (
	"dtix/src/types"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// abortWithError maps domain failures onto HTTP statuses and keeps
// the error envelope uniform across handlers.
func abortWithError(ctx *gin.Context, err error) {
	var domainErr *types.DomainError
	if errors.As(err, &domainErr) {
		ctx.JSON(domainErr.HTTPStatus(), gin.H{"error": domainErr.Message})
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
