// Package httpjson は JSON リクエストの null と未指定を区別するための型を提供する。
package httpjson

import "encoding/json"

// Nullable は PATCH 系のリクエストで使う 3 値のフィールド。
type Nullable[T any] struct {
	Set   bool // JSONにフィールドが存在したか（未指定=false）
	Valid bool // nullでないか（値あり=true、null=false）
	Val   T
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if string(b) == "null" {
		n.Valid = false
		var zero T
		n.Val = zero
		return nil
	}
	n.Valid = true
	return json.Unmarshal(b, &n.Val)
}

// IsNull は null が明示的に指定されたかどうか。
func (n Nullable[T]) IsNull() bool {
	return n.Set && !n.Valid
}
