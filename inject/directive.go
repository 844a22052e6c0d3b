// Package inject 把抽象的注入指令（构造函数、属性、字段、方法 + 参数描述）
// 绑定到目标类型上唯一的成员，并把结果作为策略写入策略注册表。
package inject

import (
	"fmt"
	"reflect"

	"github.com/cespare/xxhash/v2"

	"github.com/oss-evaluation-repository/unitycontainer-abstractions/member"
)

// Directive 是一个注入配置单元。
type Directive interface {
	// BuildRequired 为 true 时，容器必须重新构建目标类型，
	// 而不是复用已缓存或已映射的实例。
	BuildRequired() bool

	// ContributePolicies 向 registry 写入零个或多个策略。
	ContributePolicies(registered, target reflect.Type, name string, registry PolicyRegistry) error
}

// unresolvedHash 是未解析指令的哈希值。未解析的指令不应作为 map 键使用。
const unresolvedHash uint64 = 0x9e3779b97f4a7c15

// MemberDirective 是泛型的成员解析引擎：M 为成员种类，D 为参数数据形态。
//
// 解析成功后成员被写入只写一次的槽位，之后的调用不再扫描，只做校验。
// 同一个实例不能被并发解析。
type MemberDirective[M member.Member, D any] struct {
	name     string
	selector Selector[D]
	provider member.Provider[M]
	matcher  MemberMatcher[M, D]
	resolved Once[M]
}

// NewMemberDirective 创建解析引擎。matcher 为 nil 时使用 NameMatcher。
func NewMemberDirective[M member.Member, D any](
	name string,
	selector Selector[D],
	provider member.Provider[M],
	matcher MemberMatcher[M, D],
) *MemberDirective[M, D] {
	if matcher == nil {
		matcher = NameMatcher[M, D]{}
	}
	return &MemberDirective[M, D]{
		name:     name,
		selector: selector,
		provider: provider,
		matcher:  matcher,
	}
}

// Name 返回要匹配的成员名称
func (d *MemberDirective[M, D]) Name() string { return d.name }

// Selector 返回匹配方式
func (d *MemberDirective[M, D]) Selector() Selector[D] { return d.selector }

// Member 返回已解析的成员；未解析时第二个返回值为 false
func (d *MemberDirective[M, D]) Member() (M, bool) { return d.resolved.Get() }

// Signature 返回请求的成员签名，用于错误信息与日志
func (d *MemberDirective[M, D]) Signature() string {
	return d.selector.describe(d.name)
}

// Resolve 在 target 声明的成员中选出唯一匹配的成员。
// 已解析时跳过扫描，只重新校验。
func (d *MemberDirective[M, D]) Resolve(target reflect.Type) (M, error) {
	if _, ok := d.resolved.Get(); !ok {
		if err := d.selectMember(target); err != nil {
			var zero M
			return zero, err
		}
	}

	if err := d.Validate(target); err != nil {
		var zero M
		return zero, err
	}

	m, _ := d.resolved.Get()
	return m, nil
}

// selectMember 线性扫描候选成员。第二个匹配出现时立即报告歧义，不再继续扫描。
func (d *MemberDirective[M, D]) selectMember(target reflect.Type) error {
	match := d.predicate()

	var (
		selected M
		found    bool
	)
	for _, candidate := range d.provider.DeclaredMembers(target) {
		if !match(candidate) {
			continue
		}
		if found {
			return &ConfigurationError{
				Kind:      AmbiguousMember,
				Type:      target,
				Member:    d.name,
				Signature: d.Signature(),
				Conflicts: []string{describeMember(selected), describeMember(candidate)},
			}
		}
		selected = candidate
		found = true
	}

	if !found {
		return nil
	}
	if err := d.resolved.Set(selected); err != nil {
		return fmt.Errorf("inject: %s on type %v: %w", d.Signature(), target, err)
	}
	return nil
}

func (d *MemberDirective[M, D]) predicate() func(M) bool {
	data, ok := d.selector.Data()
	if !ok {
		return func(candidate M) bool {
			return candidate.MemberName() == d.name
		}
	}
	return func(candidate M) bool {
		return d.matcher.MatchMember(candidate, d.name, data)
	}
}

// Validate 在没有解析出成员时返回 NoMatchingMember 错误
func (d *MemberDirective[M, D]) Validate(target reflect.Type) error {
	if _, ok := d.resolved.Get(); ok {
		return nil
	}
	return &ConfigurationError{
		Kind:      NoMatchingMember,
		Type:      target,
		Member:    d.name,
		Signature: d.Signature(),
	}
}

// Equal 报告指令是否与 other 相等：
//   - other 是成员 M：已解析成员与之相同
//   - other 实现 Equal(any) bool：把已解析成员交给它比较
//
// 未解析的指令只与自身相等。
func (d *MemberDirective[M, D]) Equal(other any) bool {
	if o, ok := other.(*MemberDirective[M, D]); ok && o == d {
		return true
	}

	m, resolved := d.resolved.Get()
	if !resolved {
		return false
	}

	switch o := other.(type) {
	case M:
		return member.Equal(m, o)
	case interface{ Equal(any) bool }:
		return o.Equal(m)
	}
	return false
}

// Hash 由已解析成员的 Key 计算；未解析时返回固定值
func (d *MemberDirective[M, D]) Hash() uint64 {
	m, ok := d.resolved.Get()
	if !ok {
		return unresolvedHash
	}
	return xxhash.Sum64String(m.Key())
}

// String 返回可读表示
func (d *MemberDirective[M, D]) String() string {
	if m, ok := d.resolved.Get(); ok {
		return describeMember(m)
	}
	return d.Signature() + " (unresolved)"
}

func describeMember(m member.Member) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return m.Key()
}
