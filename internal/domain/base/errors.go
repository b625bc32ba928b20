package base

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Kind はエラーの分類。HTTP 層はこれでステータスコードを決める。
type Kind string

const (
	KindValidation    Kind = "VALIDATION_ERROR"
	KindNotFound      Kind = "NOT_FOUND"
	KindRuleViolation Kind = "RULE_VIOLATION"
	KindForbidden     Kind = "FORBIDDEN"
	KindConflict      Kind = "CONFLICT"
)

// --- Sentinel Errors ---
// *Error はいずれかを Unwrap で返すので errors.Is で分類を判定できる。
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrRuleViolation = errors.New("domain rule violation")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindNotFound:
		return ErrNotFound
	case KindRuleViolation:
		return ErrRuleViolation
	case KindForbidden:
		return ErrForbidden
	case KindConflict:
		return ErrConflict
	default:
		return nil
	}
}

// Error はドメイン・ユースケースで使う typed error。
// HTTP 層で errors.As を使って field/code/rejectedValue を取り出せる。
type Error struct {
	Kind          Kind
	Field         string  // title, dueDate, status など（無い場合は空）
	Code          string  // REQUIRED, TOO_LONG, INVALID_ENUM ...
	Message       string  // 利用者向けの文言
	RejectedValue *string // 不正だった値（nil の場合もある）
	cause         error
}

// Error は error インターフェースを満たす。
func (e *Error) Error() string {
	var b strings.Builder
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.RejectedValue != nil {
		fmt.Fprintf(&b, " (rejected: %s)", *e.RejectedValue)
	}
	return b.String()
}

// Unwrap は分類の sentinel と cause を返す。
func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if s := e.Kind.sentinel(); s != nil {
		out = append(out, s)
	}
	if e.cause != nil {
		out = append(out, e.cause)
	}
	return out
}

// KindOf は err の分類を返す。分類できない場合は空文字。
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	switch {
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrRuleViolation):
		return KindRuleViolation
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrConflict):
		return KindConflict
	}
	return ""
}

// --- Constructors ---

// Invalid は任意コードの validation error を生成する。
func Invalid(field, code, message string, rejected *string) *Error {
	return &Error{Kind: KindValidation, Field: field, Code: code, Message: message, RejectedValue: rejected}
}

// Required は必須項目が空のときのエラー。
func Required(field, message string) *Error {
	return Invalid(field, "REQUIRED", message, nil)
}

// InvalidEnum は列挙値として解釈できない文字列を受け取ったときのエラー。
func InvalidEnum(field, raw string) *Error {
	return Invalid(field, "INVALID_ENUM", fmt.Sprintf("unsupported %s value", field), &raw)
}

// NotFound は tombstone でない行が見つからないときのエラー。
func NotFound(entity string, id uuid.UUID) *Error {
	return &Error{
		Kind:    KindNotFound,
		Field:   entity,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s %s not found", entity, id),
	}
}

// Violation はビジネスルール違反。cause に具体的な sentinel を渡す。
func Violation(cause error, message string) *Error {
	return &Error{Kind: KindRuleViolation, Code: "RULE_VIOLATION", Message: message, cause: cause}
}

// Forbidden は権限不足。
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: message}
}

// Conflict は楽観ロックの不一致や一意制約違反。
func Conflict(entity string, message string) *Error {
	return &Error{Kind: KindConflict, Field: entity, Code: "CONFLICT", Message: message}
}

// RequireText は空白のみ・長すぎる文字列を拒否する。max <= 0 なら長さは見ない。
func RequireText(field, value string, max int) error {
	if strings.TrimSpace(value) == "" {
		return Required(field, field+" must not be empty")
	}
	return MaxLength(field, value, max)
}

// MaxLength は文字数（rune 数）の上限を検証する。
func MaxLength(field, value string, max int) error {
	if max > 0 && utf8.RuneCountInString(value) > max {
		return Invalid(field, "TOO_LONG", fmt.Sprintf("%s must be at most %d characters", field, max), nil)
	}
	return nil
}

// RequireID は uuid.Nil を拒否する。
func RequireID(field string, id uuid.UUID) error {
	if id == uuid.Nil {
		return Required(field, field+" must not be empty")
	}
	return nil
}

// WithCause は cause を設定した e を返す。
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}
