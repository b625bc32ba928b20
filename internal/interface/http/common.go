package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskflow/internal/domain/base"
	domain "taskflow/internal/domain/task"
	"taskflow/internal/interface/httpjson"
)

// responder は JSON の書き込みとエラーの変換をまとめたもの。
type responder struct {
	logger *zap.Logger
}

func (rs responder) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rs.logger.Warn("failed to encode response", zap.Error(err))
	}
}

// fail は err の分類に応じたステータスコードとボディを書き込む。
// 分類できないエラーはログに残し、中身は返さない。
func (rs responder) fail(w http.ResponseWriter, r *http.Request, location string, err error) {
	kind := base.KindOf(err)
	status := statusFor(kind)

	if kind == base.KindValidation {
		rs.json(w, status, NewValidationErrorResponse(location, toValidationIssue(location, err)))
		return
	}
	if kind == "" {
		rs.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		rs.json(w, status, ErrorResponse{Error: "INTERNAL_ERROR", Message: "internal server error"})
		return
	}

	msg := err.Error()
	var de *base.Error
	if errors.As(err, &de) {
		msg = de.Message
	}
	rs.json(w, status, ErrorResponse{Error: string(kind), Message: msg})
}

// statusFor は error kind を HTTP ステータスコードに対応させる。
func statusFor(kind base.Kind) int {
	switch kind {
	case base.KindValidation:
		return http.StatusBadRequest
	case base.KindForbidden:
		return http.StatusForbidden
	case base.KindNotFound:
		return http.StatusNotFound
	case base.KindConflict:
		return http.StatusConflict
	case base.KindRuleViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON はボディを v にデコードする。未知のフィールドは拒否する。
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return base.Invalid("body", "INVALID_JSON", "request body must be valid JSON: "+err.Error(), nil)
	}
	return nil
}

// pathUUID はパスパラメータ name を UUID として取り出す。
func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := r.PathValue(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, base.Invalid(name, "INVALID_FORMAT", name+" must be a valid UUID", &raw)
	}
	return id, nil
}

// parseUUID はボディ中の UUID 文字列を解釈する。空文字は uuid.Nil。
func parseUUID(field, raw string) (uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, base.Invalid(field, "INVALID_FORMAT", field+" must be a valid UUID", &raw)
	}
	return id, nil
}

// parseDate は RFC3339 または YYYY-MM-DD の日時を受け付ける。
func parseDate(field, raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	return time.Time{}, base.Invalid(field, "INVALID_FORMAT", field+" must be RFC3339 or YYYY-MM-DD", &raw)
}

// datePatch は Nullable の日付文字列を Patch に変換する。
func datePatch(field string, n httpjson.Nullable[string]) (domain.Patch[time.Time], error) {
	switch {
	case !n.Set:
		return domain.Unset[time.Time](), nil
	case n.IsNull():
		return domain.Null[time.Time](), nil
	}
	t, err := parseDate(field, n.Val)
	if err != nil {
		return domain.Patch[time.Time]{}, err
	}
	return domain.Set(t), nil
}

// textPatch は Nullable の文字列を Patch に変換する。
func textPatch(n httpjson.Nullable[string]) domain.Patch[string] {
	switch {
	case !n.Set:
		return domain.Unset[string]()
	case n.IsNull():
		return domain.Null[string]()
	}
	return domain.Set(n.Val)
}
