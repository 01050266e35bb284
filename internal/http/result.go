package httpapi

import (
	"errors"
	"net/http"

	"github.com/MPanduranga55/Contact-Book/internal/service"
)

const (
	msgEndpointNotFound = "Endpoint not found"
	msgInternalError    = "Internal server error"
	msgInvalidJSON      = "Invalid JSON body"
	msgTooManyRequests  = "Too many requests"
)

// ErrorBody 错误响应体：{error, details?}
type ErrorBody struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindInvalid, service.KindValidation:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError 按服务层错误类型输出状态码；内部错误只返回通用提示
func writeError(w http.ResponseWriter, err error) {
	var se *service.Error
	if !errors.As(err, &se) {
		writeJSON(w, http.StatusInternalServerError, ErrorBody{Error: msgInternalError})
		return
	}
	writeJSON(w, statusForKind(se.Kind), ErrorBody{Error: se.Message, Details: se.Details})
}

func writeNotFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, ErrorBody{Error: msgEndpointNotFound})
}
