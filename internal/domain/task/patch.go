package task

// Patch は部分更新の 3 状態（未指定 / null / 値あり）を表す。
type Patch[T any] struct {
	IsSet  bool // 未指定=false
	IsNull bool // null=true
	Value  T
}

func Unset[T any]() Patch[T]  { return Patch[T]{} }
func Null[T any]() Patch[T]   { return Patch[T]{IsSet: true, IsNull: true} }
func Set[T any](v T) Patch[T] { return Patch[T]{IsSet: true, Value: v} }

// HasValue は値ありの場合のみ true。
func (p Patch[T]) HasValue() bool { return p.IsSet && !p.IsNull }

// Ptr は null 指定なら nil、値ありなら値へのポインタを返す。未指定時も nil。
func (p Patch[T]) Ptr() *T {
	if !p.HasValue() {
		return nil
	}
	v := p.Value
	return &v
}
