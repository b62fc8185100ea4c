package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/interworky/error-tracker/internal/errors"
	"github.com/interworky/error-tracker/internal/model"
)

// statusFor - 에러 종류별 HTTP 상태 코드
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// 내부 에러 상세는 로그로만 남김
		_ = c.Error(err)
		msg = "internal error"
	}
	c.JSON(status, model.ErrorResponse{Error: msg, Fields: apperrors.FieldsOf(err)})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request body: " + err.Error()})
}
