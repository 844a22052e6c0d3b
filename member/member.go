// Package member 描述目标类型对外声明的可注入成员（构造函数、属性、字段、方法），
// 以及基于 reflect 的成员枚举（反射提供者）。
package member

import (
	"reflect"
)

// Member 是一个可注入成员。
type Member interface {
	// MemberName 返回声明名称
	MemberName() string
	// DeclaringType 返回声明该成员的类型
	DeclaringType() reflect.Type
	// Key 返回成员的稳定标识，用于相等比较与哈希
	Key() string
}

// Parameterized 是带参数列表的成员（构造函数、方法）。
type Parameterized interface {
	Member
	// ParameterTypes 返回有序的参数类型（不含接收者）
	ParameterTypes() []reflect.Type
}

// Typed 是自身带类型的成员（属性、字段）。
type Typed interface {
	Member
	Type() reflect.Type
}

// Provider 枚举目标类型声明的成员。
// 每次调用都重新查询，调用方不应缓存结果。
type Provider[M Member] interface {
	DeclaredMembers(target reflect.Type) []M
}

// ProviderFunc 将普通函数适配为 Provider
type ProviderFunc[M Member] func(target reflect.Type) []M

// DeclaredMembers 调用 f(target)
func (f ProviderFunc[M]) DeclaredMembers(target reflect.Type) []M {
	return f(target)
}

// Static 是固定成员列表的 Provider，忽略目标类型。常用于手工构造的测试夹具。
type Static[M Member] []M

// DeclaredMembers 返回列表副本
func (s Static[M]) DeclaredMembers(reflect.Type) []M {
	out := make([]M, len(s))
	copy(out, s)
	return out
}

// Equal 报告两个成员是否是同一个成员
func Equal(a, b Member) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.DeclaringType() == b.DeclaringType() && a.Key() == b.Key()
}

// indirect 去掉一层指针，返回可用于枚举字段的类型
func indirect(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
