package member

import (
	"fmt"
	"reflect"
)

// Method 是目标类型方法集中的一个方法。
type Method struct {
	owner reflect.Type
	m     reflect.Method
}

// NewMethod 用 reflect.Method 创建 Method；owner 是查找该方法所用的类型。
func NewMethod(owner reflect.Type, m reflect.Method) Method {
	return Method{owner: owner, m: m}
}

// MemberName 返回方法名
func (m Method) MemberName() string { return m.m.Name }

// DeclaringType 返回查找该方法所用的类型（结构体会被提升为指针类型）
func (m Method) DeclaringType() reflect.Type { return m.owner }

// Method 返回原始的 reflect.Method
func (m Method) Method() reflect.Method { return m.m }

// ParameterTypes 返回参数类型，不含接收者
func (m Method) ParameterTypes() []reflect.Type {
	if m.m.Type == nil {
		return nil
	}
	// 接口类型的方法描述不含接收者
	start := 1
	if m.owner != nil && m.owner.Kind() == reflect.Interface {
		start = 0
	}

	n := m.m.Type.NumIn()
	if n <= start {
		return nil
	}
	params := make([]reflect.Type, 0, n-start)
	for i := start; i < n; i++ {
		params = append(params, m.m.Type.In(i))
	}
	return params
}

// Key 由所属类型、方法名与签名组成
func (m Method) Key() string {
	return fmt.Sprintf("method:%v.%s%s", m.owner, m.m.Name, signature(m.ParameterTypes()))
}

// String 返回可读表示
func (m Method) String() string {
	return m.m.Name + signature(m.ParameterTypes())
}

// Methods 是 Method 的 Provider：列出导出方法。
// 对非指针、非接口类型使用其指针类型的方法集，以包含指针接收者的方法。
type Methods struct{}

// DeclaredMembers 列出 target 的方法（按名称排序，与 reflect 一致）
func (Methods) DeclaredMembers(target reflect.Type) []Method {
	if target == nil {
		return nil
	}
	owner := target
	if owner.Kind() != reflect.Pointer && owner.Kind() != reflect.Interface {
		owner = reflect.PointerTo(owner)
	}

	out := make([]Method, 0, owner.NumMethod())
	for i := 0; i < owner.NumMethod(); i++ {
		out = append(out, Method{owner: owner, m: owner.Method(i)})
	}
	return out
}
