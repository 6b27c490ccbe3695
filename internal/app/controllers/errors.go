package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/notes/internal/app/apperrs"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrInternal   = errors.New("internal server error")
)

// errorResponse тело ответа с ошибкой.
type errorResponse struct {
	Error string `json:"error"`
}

// abortWithError переводит ошибку сервисного слоя в http статус.
func abortWithError(ctx *gin.Context, err error) {
	var appErr *apperrs.AppError
	if !errors.As(err, &appErr) {
		_ = ctx.Error(err)
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: ErrInternal.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch appErr {
	case apperrs.ErrRecordNotFound, apperrs.ErrParentNotFound:
		status = http.StatusNotFound
	case apperrs.ErrURLTaken:
		status = http.StatusConflict
	case apperrs.ErrInvalidShortURL:
		status = http.StatusUnprocessableEntity
	default:
		_ = ctx.Error(err)
	}
	ctx.AbortWithStatusJSON(status, errorResponse{Error: appErr.Message})
}
