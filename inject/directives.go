package inject

import (
	"reflect"

	"github.com/oss-evaluation-repository/unitycontainer-abstractions/member"
	"github.com/oss-evaluation-repository/unitycontainer-abstractions/typematch"
)

// ConstructorDirective 选择一个构造函数。参数数量与类型必须匹配。
type ConstructorDirective struct {
	*MemberDirective[member.Constructor, []typematch.Arg]
}

// NewConstructor 创建构造函数指令。args 中每个值按 typematch.ArgOf 分类：
// reflect.Type 为类型占位符，TypeMatcher 为自匹配规格，其他为字面量。
// 不传 args 时选择无参构造函数。
//
// 示例：
//
//	table := member.NewConstructorTable().MustAdd(NewServiceWithName, NewServiceWithPort)
//	inject.NewConstructor(table, reflect.TypeOf(""))
func NewConstructor(ctors member.Provider[member.Constructor], args ...any) *ConstructorDirective {
	return &ConstructorDirective{
		MemberDirective: NewMemberDirective(
			member.ConstructorName,
			WithData(typematch.ArgsOf(args...)),
			ctors,
			MemberMatcher[member.Constructor, []typematch.Arg](SignatureMatcher[member.Constructor]{}),
		),
	}
}

// BuildRequired 指定构造函数意味着需要重新构建
func (d *ConstructorDirective) BuildRequired() bool { return true }

// ContributePolicies 解析构造函数并写入 ConstructorPolicy
func (d *ConstructorDirective) ContributePolicies(registered, target reflect.Type, name string, registry PolicyRegistry) error {
	ctor, err := d.Resolve(target)
	if err != nil {
		return err
	}
	args, _ := d.Selector().Data()
	return registry.Add(
		PolicyKey{Kind: ConstructorPolicyKind, Type: target, Name: name},
		&ConstructorPolicy{Registered: registered, Type: target, Constructor: ctor, Args: args},
	)
}

// PropertyDirective 选择一个导出字段进行注入。
type PropertyDirective struct {
	*MemberDirective[member.Property, typematch.Arg]
}

// NewProperty 按名称选择属性，值由容器按属性类型解析
func NewProperty(name string) *PropertyDirective {
	return newPropertyDirective(name, NameOnly[typematch.Arg]())
}

// NewPropertyValue 按名称选择属性，并要求 value 与属性类型兼容
func NewPropertyValue(name string, value any) *PropertyDirective {
	return newPropertyDirective(name, WithData(typematch.ArgOf(value)))
}

func newPropertyDirective(name string, sel Selector[typematch.Arg]) *PropertyDirective {
	return &PropertyDirective{
		MemberDirective: NewMemberDirective(
			name,
			sel,
			member.Provider[member.Property](member.Properties{}),
			MemberMatcher[member.Property, typematch.Arg](TypedMatcher[member.Property]{}),
		),
	}
}

// BuildRequired 属性注入不改变构建路径
func (d *PropertyDirective) BuildRequired() bool { return false }

// ContributePolicies 解析属性并写入 PropertyPolicy
func (d *PropertyDirective) ContributePolicies(registered, target reflect.Type, name string, registry PolicyRegistry) error {
	prop, err := d.Resolve(target)
	if err != nil {
		return err
	}
	return registry.Add(
		PolicyKey{Kind: PropertyPolicyKind, Type: target, Name: name, Member: prop.MemberName()},
		&PropertyPolicy{Registered: registered, Type: target, Property: prop, Value: valueOf(d.Selector())},
	)
}

// FieldDirective 选择任意字段（包括未导出字段）进行注入。
type FieldDirective struct {
	*MemberDirective[member.Field, typematch.Arg]
}

// NewField 按名称选择字段
func NewField(name string) *FieldDirective {
	return newFieldDirective(name, NameOnly[typematch.Arg]())
}

// NewFieldValue 按名称选择字段，并要求 value 与字段类型兼容
func NewFieldValue(name string, value any) *FieldDirective {
	return newFieldDirective(name, WithData(typematch.ArgOf(value)))
}

func newFieldDirective(name string, sel Selector[typematch.Arg]) *FieldDirective {
	return &FieldDirective{
		MemberDirective: NewMemberDirective(
			name,
			sel,
			member.Provider[member.Field](member.Fields{}),
			MemberMatcher[member.Field, typematch.Arg](TypedMatcher[member.Field]{}),
		),
	}
}

// BuildRequired 字段注入不改变构建路径
func (d *FieldDirective) BuildRequired() bool { return false }

// ContributePolicies 解析字段并写入 FieldPolicy
func (d *FieldDirective) ContributePolicies(registered, target reflect.Type, name string, registry PolicyRegistry) error {
	field, err := d.Resolve(target)
	if err != nil {
		return err
	}
	return registry.Add(
		PolicyKey{Kind: FieldPolicyKind, Type: target, Name: name, Member: field.MemberName()},
		&FieldPolicy{Registered: registered, Type: target, Field: field, Value: valueOf(d.Selector())},
	)
}

// MethodDirective 选择构建后需要调用的方法。
type MethodDirective struct {
	*MemberDirective[member.Method, []typematch.Arg]
}

// NewMethod 按名称与参数选择方法，args 的分类规则同 NewConstructor
func NewMethod(name string, args ...any) *MethodDirective {
	return &MethodDirective{
		MemberDirective: NewMemberDirective(
			name,
			WithData(typematch.ArgsOf(args...)),
			member.Provider[member.Method](member.Methods{}),
			MemberMatcher[member.Method, []typematch.Arg](SignatureMatcher[member.Method]{}),
		),
	}
}

// BuildRequired 方法在构建过程中调用
func (d *MethodDirective) BuildRequired() bool { return true }

// ContributePolicies 解析方法并写入 MethodPolicy
func (d *MethodDirective) ContributePolicies(registered, target reflect.Type, name string, registry PolicyRegistry) error {
	method, err := d.Resolve(target)
	if err != nil {
		return err
	}
	args, _ := d.Selector().Data()
	return registry.Add(
		PolicyKey{Kind: MethodPolicyKind, Type: target, Name: name, Member: method.MemberName()},
		&MethodPolicy{Registered: registered, Type: target, Method: method, Args: args},
	)
}

func valueOf(sel Selector[typematch.Arg]) *typematch.Arg {
	v, ok := sel.Data()
	if !ok {
		return nil
	}
	return &v
}
