// Package typematch 判断候选类型（或代表其运行时类型的值）能否用于某个目标参数类型。
//
// 所有函数都是纯函数，不持有共享状态，可以被任意并发调用。
// 匹配失败时只返回 false，从不返回错误。
package typematch

import (
	"reflect"
	"strings"
)

// Compatibility 描述候选类型与目标类型之间的兼容关系。
type Compatibility int

const (
	// Incompatible 不兼容
	Incompatible Compatibility = iota
	// Unconstrained 候选类型缺失（nil），视为通配
	Unconstrained
	// Exact 类型完全相同
	Exact
	// Assignable 候选类型可赋值给目标类型（包括实现接口）
	Assignable
	// ArrayCovariant 两侧都是数组形态（slice、array 或 AnyArray）
	ArrayCovariant
	// SameGenericDefinition 两侧是同一个泛型定义的实例
	SameGenericDefinition
)

// String 返回兼容关系的字符串表示
func (c Compatibility) String() string {
	switch c {
	case Incompatible:
		return "incompatible"
	case Unconstrained:
		return "unconstrained"
	case Exact:
		return "exact"
	case Assignable:
		return "assignable"
	case ArrayCovariant:
		return "array-covariant"
	case SameGenericDefinition:
		return "same-generic-definition"
	default:
		return "unknown"
	}
}

// OK 报告该关系是否算作匹配
func (c Compatibility) OK() bool {
	return c != Incompatible
}

type anyArray struct{}

// AnyArray 是"任意数组"的哨兵类型。
// 出现在候选或目标任一侧时，与任意 slice / array 类型匹配。
var AnyArray = reflect.TypeOf(anyArray{})

// typeType 是 reflect.Type 接口本身的类型。
// 一个 reflect.Type 值作为字面量时代表的是它，而不是它所描述的类型。
var typeType = reflect.TypeOf((*reflect.Type)(nil)).Elem()

// Definition 标识一个泛型类型的未绑定定义（模板），与类型实参无关。
//
// Go 的反射不暴露泛型定义，这里通过包路径与去掉 "[...]" 的类型名还原它：
// List[int] 与 List[string] 得到同一个 Definition。
type Definition struct {
	PkgPath string
	Name    string
}

// String 返回 Definition 的字符串表示，如 "example.com/pkg.List[...]"
func (d Definition) String() string {
	if d.PkgPath == "" {
		return d.Name + "[...]"
	}
	return d.PkgPath + "." + d.Name + "[...]"
}

// DefinitionOf 返回 t 所实例化的泛型定义。
// 对非泛型类型返回 false；指针类型按其元素类型处理。
func DefinitionOf(t reflect.Type) (Definition, bool) {
	if t == nil {
		return Definition{}, false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	name := t.Name()
	idx := strings.IndexByte(name, '[')
	if idx <= 0 {
		return Definition{}, false
	}
	return Definition{PkgPath: t.PkgPath(), Name: name[:idx]}, true
}

// Compare 计算候选类型 candidate 与目标参数类型 target 的兼容关系。
func Compare(candidate, target reflect.Type) Compatibility {
	if candidate == nil {
		return Unconstrained
	}
	if target == nil {
		return Incompatible
	}

	if candidate == target {
		return Exact
	}

	if candidate.AssignableTo(target) {
		return Assignable
	}

	if isArrayLike(candidate) && isArrayLike(target) {
		return ArrayCovariant
	}

	if sameGenericDefinition(candidate, target) {
		return SameGenericDefinition
	}

	return Incompatible
}

// MatchesType 报告 candidate 是否可以用于类型为 target 的参数。
// nil 候选匹配任何类型。
func MatchesType(candidate, target reflect.Type) bool {
	return Compare(candidate, target).OK()
}

// MatchesValue 与 MatchesType 相同，但候选类型取自 value 的运行时类型。
// nil 匹配任何类型；reflect.Type 值代表 reflect.Type 接口本身。
func MatchesValue(value any, target reflect.Type) bool {
	if value == nil {
		return true
	}
	if _, ok := value.(reflect.Type); ok {
		return MatchesType(typeType, target)
	}
	return MatchesType(reflect.TypeOf(value), target)
}

func isArrayLike(t reflect.Type) bool {
	if t == AnyArray {
		return true
	}
	k := t.Kind()
	return k == reflect.Slice || k == reflect.Array
}

func sameGenericDefinition(candidate, target reflect.Type) bool {
	// 指针只与指针比较，避免 *List[int] 匹配 List[string]
	if (candidate.Kind() == reflect.Pointer) != (target.Kind() == reflect.Pointer) {
		return false
	}
	cd, ok := DefinitionOf(candidate)
	if !ok {
		return false
	}
	td, ok := DefinitionOf(target)
	if !ok {
		return false
	}
	return cd == td
}
