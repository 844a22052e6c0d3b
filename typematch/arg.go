package typematch

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"
)

// TypeMatcher 是自描述的注入值：它自己决定能否用于某个参数类型。
type TypeMatcher interface {
	MatchesType(target reflect.Type) bool
}

// ArgKind 参数描述符的种类
type ArgKind int

const (
	// ArgLiteral 字面量，按运行时类型匹配
	ArgLiteral ArgKind = iota
	// ArgPlaceholder 类型占位符，按声明类型匹配
	ArgPlaceholder
	// ArgSelfMatching 自匹配规格，委托给 TypeMatcher
	ArgSelfMatching
)

// String 返回种类名称
func (k ArgKind) String() string {
	switch k {
	case ArgLiteral:
		return "literal"
	case ArgPlaceholder:
		return "placeholder"
	case ArgSelfMatching:
		return "self-matching"
	default:
		return "unknown"
	}
}

// Arg 是一个参数描述符，只能通过 Literal / Placeholder / SelfMatching / ArgOf 创建。
type Arg struct {
	kind    ArgKind
	value   any
	typ     reflect.Type
	matcher TypeMatcher
}

// Literal 创建字面量参数
func Literal(value any) Arg {
	return Arg{kind: ArgLiteral, value: value}
}

// Placeholder 创建类型占位符参数
func Placeholder(t reflect.Type) Arg {
	return Arg{kind: ArgPlaceholder, typ: t}
}

// PlaceholderFor 创建类型 T 的占位符（泛型辅助函数）
//
// 示例：
//
//	typematch.PlaceholderFor[io.Reader]()
func PlaceholderFor[T any]() Arg {
	return Placeholder(reflect.TypeOf((*T)(nil)).Elem())
}

// SelfMatching 创建自匹配参数
func SelfMatching(m TypeMatcher) Arg {
	return Arg{kind: ArgSelfMatching, matcher: m}
}

// ArgOf 根据 v 的形态选择参数种类：
//   - Arg              -> 原样返回
//   - TypeMatcher      -> SelfMatching
//   - reflect.Type     -> Placeholder
//   - 其他（包括 nil） -> Literal
func ArgOf(v any) Arg {
	switch x := v.(type) {
	case Arg:
		return x
	case TypeMatcher:
		return SelfMatching(x)
	case reflect.Type:
		return Placeholder(x)
	default:
		return Literal(v)
	}
}

// ArgsOf 对每个值调用 ArgOf
func ArgsOf(values ...any) []Arg {
	args := make([]Arg, len(values))
	for i, v := range values {
		args[i] = ArgOf(v)
	}
	return args
}

// Kind 返回参数种类
func (a Arg) Kind() ArgKind { return a.kind }

// Value 返回字面量值（仅 ArgLiteral 有意义）
func (a Arg) Value() any { return a.value }

// Type 返回占位符类型（仅 ArgPlaceholder 有意义）
func (a Arg) Type() reflect.Type { return a.typ }

// Matcher 返回自匹配规格（仅 ArgSelfMatching 有意义）
func (a Arg) Matcher() TypeMatcher { return a.matcher }

// Matches 报告参数 a 能否用于类型为 target 的参数。
func Matches(a Arg, target reflect.Type) bool {
	switch a.kind {
	case ArgSelfMatching:
		if a.matcher == nil {
			return true
		}
		return a.matcher.MatchesType(target)
	case ArgPlaceholder:
		return MatchesType(a.typ, target)
	default:
		return MatchesValue(a.value, target)
	}
}

// MatchesAll 报告 args 是否与 params 逐个匹配（数量必须相同）。
func MatchesAll(args []Arg, params []reflect.Type) bool {
	if len(args) != len(params) {
		return false
	}
	for i, p := range params {
		if !Matches(args[i], p) {
			return false
		}
	}
	return true
}

var spewConfig = spew.ConfigState{
	Indent:                  " ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// String 返回参数的可读表示
func (a Arg) String() string {
	switch a.kind {
	case ArgPlaceholder:
		if a.typ == nil {
			return "<any>"
		}
		if a.typ == AnyArray {
			return "[]..."
		}
		return a.typ.String()
	case ArgSelfMatching:
		if s, ok := a.matcher.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprintf("%T", a.matcher)
	default:
		if a.value == nil {
			return "nil"
		}
		return spewConfig.Sprintf("%#v", a.value)
	}
}

// Signature 返回参数列表的可读签名，如 "(int, (string)abc)"
func Signature(args []Arg) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

// TypesSignature 返回类型列表的可读签名
func TypesSignature(types []reflect.Type) string {
	var b strings.Builder
	b.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t.String())
	}
	b.WriteByte(')')
	return b.String()
}
