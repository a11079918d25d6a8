package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/logger"
)

// maxBodyBytes 请求体上限
const maxBodyBytes = 1 << 20

// readJSON 解析请求体并执行结构体校验
func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "解析请求失败")
	}
	if err := h.validate.Struct(v); err != nil {
		return h.translateValidation(err)
	}
	return nil
}

// translateValidation 将校验错误翻译为中文并转换为 VALIDATION_FAILED
func (h *Handler) translateValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "请求参数无效")
	}
	out := &apperrors.ValidationErrors{}
	for _, fe := range verrs {
		out.Add(fe.Field(), fe.Translate(h.translator))
	}
	return out.ToAppError()
}

// respondJSON 返回JSON响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error().Err(err).Msg("写入响应失败")
	}
}

// respondError 返回错误响应，非 AppError 一律按内部错误处理
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.As(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		logger.WithContext(r.Context()).Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("服务器内部错误")
	}

	body := map[string]interface{}{
		"error":   true,
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	respondJSON(w, appErr.HTTPStatus, body)
}

// pathInt64 读取正整数路径参数
func pathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || v <= 0 {
		return 0, apperrors.InvalidInput(name, "必须为正整数")
	}
	return v, nil
}

// pathInt 读取整数路径参数
func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil {
		return 0, apperrors.InvalidInput(name, "必须为整数")
	}
	return v, nil
}
