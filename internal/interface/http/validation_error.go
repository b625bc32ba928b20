package http

import (
	"errors"
	"strconv"

	"taskflow/internal/domain/base"
)

// ValidationIssue は 400 レスポンスの details.issues の 1 件。
type ValidationIssue struct {
	Location      string  `json:"location"`                // "query" | "path" | "body"
	Field         string  `json:"field"`                   // 例: status, priority, dueDateFrom
	Code          string  `json:"code"`                    // 例: INVALID_ENUM
	Message       string  `json:"message"`                 // フロントが直すべき内容がわかる文言
	RejectedValue *string `json:"rejectedValue,omitempty"` // 出せる場合のみ
}

type ErrorResponse struct {
	Error   string        `json:"error"`
	Message string        `json:"message"`
	Details *ErrorDetails `json:"details,omitempty"`
}

type ErrorDetails struct {
	Issues []ValidationIssue `json:"issues,omitempty"`
}

// 入力の場所。
const (
	locationPath  = "path"
	locationQuery = "query"
	locationBody  = "body"
)

// NewValidationErrorResponse は 400 用の統一レスポンスを生成する。
func NewValidationErrorResponse(location string, issues ...ValidationIssue) ErrorResponse {
	resp := ErrorResponse{
		Error:   string(base.KindValidation),
		Message: validationMessage(location),
	}
	if len(issues) > 0 {
		resp.Details = &ErrorDetails{Issues: issues}
	}
	return resp
}

func validationMessage(location string) string {
	switch location {
	case locationQuery:
		return "Invalid query parameters"
	case locationPath:
		return "Invalid path parameters"
	default:
		return "Invalid request body"
	}
}

// toValidationIssue は validation error を ValidationIssue に変換する。
// errors.As を使用し、文字列判定は行わない。
func toValidationIssue(location string, err error) ValidationIssue {
	var ile *InvalidLimitError
	if errors.As(err, &ile) {
		rejected := ile.RejectedValue
		return ValidationIssue{
			Location:      locationQuery,
			Field:         "limit",
			Code:          "INVALID_FORMAT",
			Message:       "limit は整数で指定してください（例: limit=50）。",
			RejectedValue: &rejected,
		}
	}

	var de *base.Error
	if errors.As(err, &de) {
		return ValidationIssue{
			Location:      location,
			Field:         de.Field,
			Code:          de.Code,
			Message:       messageFor(de),
			RejectedValue: de.RejectedValue,
		}
	}

	return ValidationIssue{
		Location: location,
		Field:    "unknown",
		Code:     "UNKNOWN",
		Message:  "入力内容が不正です。確認してください。",
	}
}

// messageFor は field と code の組み合わせから固定メッセージを返す。
// 該当が無ければドメイン側の文言をそのまま使う。
func messageFor(de *base.Error) string {
	switch de.Field {
	case "status":
		if de.Code == "INVALID_ENUM" {
			return "status は 'pending','in_progress','completed','cancelled' のいずれかで指定してください（例: status=pending,in_progress）。"
		}
	case "priority":
		if de.Code == "INVALID_ENUM" {
			return "priority は 'low','medium','high' のいずれかで指定してください（例: priority=high,medium）。"
		}
	case "dueDateFrom", "dueDateTo":
		if de.Code == "INVALID_FORMAT" {
			return de.Field + " は YYYY-MM-DD 形式で指定してください（例: " + de.Field + "=2026-01-10）。"
		}
	case "limit":
		if de.Code == "OUT_OF_RANGE" {
			return "limit は 1〜200 の整数で指定してください。"
		}
	}
	return de.Message
}

// InvalidLimitError は limit パース失敗時のエラー。
type InvalidLimitError struct {
	RejectedValue string // パースに失敗した元の値
	cause         error
}

// Error は error インターフェースを満たす。
func (e *InvalidLimitError) Error() string {
	return "invalid limit format: " + e.RejectedValue
}

// Unwrap は cause と ErrValidation を返す。
func (e *InvalidLimitError) Unwrap() []error {
	return []error{base.ErrValidation, e.cause}
}

// ParseLimit は handler 側で limit を parse する。未指定は 0（既定値扱い）。
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &InvalidLimitError{RejectedValue: raw, cause: err}
	}
	return v, nil
}
