package member

import (
	"fmt"
	"reflect"
)

// Field 是目标结构体中的一个字段，包括从嵌入结构体提升上来的字段。
type Field struct {
	owner reflect.Type
	sf    reflect.StructField
}

// NewField 用结构体字段描述创建 Field；sf.Index 应为从 owner 出发的完整路径。
func NewField(owner reflect.Type, sf reflect.StructField) Field {
	return Field{owner: owner, sf: sf}
}

// MemberName 返回字段名
func (f Field) MemberName() string { return f.sf.Name }

// DeclaringType 返回最外层的结构体类型
func (f Field) DeclaringType() reflect.Type { return f.owner }

// Type 返回字段类型
func (f Field) Type() reflect.Type { return f.sf.Type }

// Index 返回从最外层结构体出发的索引路径，可直接用于 reflect.Value.FieldByIndex
func (f Field) Index() []int { return f.sf.Index }

// Depth 返回嵌入深度，0 表示直接声明的字段
func (f Field) Depth() int { return len(f.sf.Index) - 1 }

// Tag 返回字段标签
func (f Field) Tag() reflect.StructTag { return f.sf.Tag }

// Exported 报告字段是否导出
func (f Field) Exported() bool { return f.sf.IsExported() }

// StructField 返回原始的字段描述
func (f Field) StructField() reflect.StructField { return f.sf }

// Key 由所属类型、字段名与索引路径组成
func (f Field) Key() string {
	return fmt.Sprintf("field:%v.%s%v", f.owner, f.sf.Name, f.sf.Index)
}

// String 返回可读表示
func (f Field) String() string {
	return fmt.Sprintf("%s %v", f.sf.Name, f.sf.Type)
}

// Property 是可从外部赋值的字段（导出字段）。
type Property struct {
	Field
}

// Key 与 Field.Key 区分前缀，同一字段作为属性和作为字段不会相等
func (p Property) Key() string {
	return fmt.Sprintf("property:%v.%s%v", p.owner, p.sf.Name, p.sf.Index)
}

// Fields 是 Field 的 Provider：列出结构体所有可见字段（导出与未导出）。
type Fields struct{}

// DeclaredMembers 列出 target 的字段
func (Fields) DeclaredMembers(target reflect.Type) []Field {
	return walkFields(target)
}

// Properties 是 Property 的 Provider：只列出导出字段。
type Properties struct{}

// DeclaredMembers 列出 target 的导出字段
func (Properties) DeclaredMembers(target reflect.Type) []Property {
	var out []Property
	for _, f := range walkFields(target) {
		if f.Exported() {
			out = append(out, Property{Field: f})
		}
	}
	return out
}

// walkFields 按深度逐层列出字段。
//
// 浅层字段会遮蔽深层的同名字段；同一深度的同名字段全部保留，
// 由调用方（解析引擎）负责报告歧义。
func walkFields(target reflect.Type) []Field {
	owner := target
	st := indirect(target)
	if st == nil || st.Kind() != reflect.Struct {
		return nil
	}

	type level struct {
		typ   reflect.Type
		index []int
	}

	var out []Field
	shadowed := make(map[string]bool)
	// 嵌入类型 -> 首次展开的深度。同一深度的副本都展开，更深处的重复（包括指针环）跳过
	visited := map[reflect.Type]int{st: 0}
	current := []level{{typ: st}}

	for depth := 1; len(current) > 0; depth++ {
		var next []level
		names := make(map[string]bool)

		for _, lv := range current {
			for i := 0; i < lv.typ.NumField(); i++ {
				sf := lv.typ.Field(i)
				if shadowed[sf.Name] {
					continue
				}

				index := make([]int, len(lv.index)+1)
				copy(index, lv.index)
				index[len(lv.index)] = i
				sf.Index = index

				out = append(out, Field{owner: owner, sf: sf})
				names[sf.Name] = true

				if sf.Anonymous {
					embedded := indirect(sf.Type)
					if embedded.Kind() != reflect.Struct {
						continue
					}
					if seen, ok := visited[embedded]; ok && seen < depth {
						continue
					}
					visited[embedded] = depth
					next = append(next, level{typ: embedded, index: index})
				}
			}
		}

		for name := range names {
			shadowed[name] = true
		}
		current = next
	}

	return out
}
