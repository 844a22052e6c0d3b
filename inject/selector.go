package inject

import (
	"fmt"
	"reflect"

	"github.com/oss-evaluation-repository/unitycontainer-abstractions/typematch"
)

// Selector 决定指令如何挑选成员：仅按名称，或按名称加数据。
// 在创建指令时确定，之后不再改变。
type Selector[D any] struct {
	data    D
	hasData bool
}

// NameOnly 创建仅按名称匹配的 Selector
func NameOnly[D any]() Selector[D] {
	return Selector[D]{}
}

// WithData 创建携带数据的 Selector，由 MemberMatcher 参与匹配
func WithData[D any](data D) Selector[D] {
	return Selector[D]{data: data, hasData: true}
}

// IsNameOnly 报告是否仅按名称匹配
func (s Selector[D]) IsNameOnly() bool { return !s.hasData }

// Data 返回数据；仅按名称匹配时返回零值和 false
func (s Selector[D]) Data() (D, bool) { return s.data, s.hasData }

// describe 返回用于错误信息的签名
func (s Selector[D]) describe(name string) string {
	if !s.hasData {
		return name
	}

	switch d := any(s.data).(type) {
	case []typematch.Arg:
		return name + typematch.Signature(d)
	case typematch.Arg:
		return name + " " + d.String()
	case []reflect.Type:
		return name + typematch.TypesSignature(d)
	case fmt.Stringer:
		return name + " " + d.String()
	default:
		return fmt.Sprintf("%s %v", name, d)
	}
}
