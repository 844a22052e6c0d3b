package inject

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/oss-evaluation-repository/unitycontainer-abstractions/member"
	"github.com/oss-evaluation-repository/unitycontainer-abstractions/typematch"
)

// PolicyKind 策略种类
type PolicyKind int

const (
	// ConstructorPolicyKind 选定的构造函数
	ConstructorPolicyKind PolicyKind = iota
	// PropertyPolicyKind 需要注入的属性
	PropertyPolicyKind
	// FieldPolicyKind 需要注入的字段
	FieldPolicyKind
	// MethodPolicyKind 构建后需要调用的方法
	MethodPolicyKind
)

// String 返回种类名称
func (k PolicyKind) String() string {
	switch k {
	case ConstructorPolicyKind:
		return "constructor"
	case PropertyPolicyKind:
		return "property"
	case FieldPolicyKind:
		return "field"
	case MethodPolicyKind:
		return "method"
	default:
		return "unknown"
	}
}

// PolicyKey 是策略注册表的键。
// Type 为映射后的目标类型，Name 为注册名称；
// 属性、字段、方法策略还带上成员名，使同一类型可以有多个。
type PolicyKey struct {
	Kind   PolicyKind
	Type   reflect.Type
	Name   string
	Member string
}

// String 返回键的字符串表示
func (k PolicyKey) String() string {
	s := fmt.Sprintf("%s:%v", k.Kind, k.Type)
	if k.Name != "" {
		s += fmt.Sprintf("(name=%s)", k.Name)
	}
	if k.Member != "" {
		s += "." + k.Member
	}
	return s
}

// Policy 描述"用这个成员和这些参数构建或填充目标类型的实例"。
// 由后续的解析阶段读取，本包只负责写入。
type Policy interface {
	Kind() PolicyKind
	// Target 映射后的目标类型
	Target() reflect.Type
	// Member 已解析的成员
	Member() member.Member
}

// PolicyRegistry 接收解析结果
type PolicyRegistry interface {
	Add(key PolicyKey, policy Policy) error
}

// ConstructorPolicy 选定的构造函数及其参数
type ConstructorPolicy struct {
	Registered  reflect.Type
	Type        reflect.Type
	Constructor member.Constructor
	Args        []typematch.Arg
}

func (p *ConstructorPolicy) Kind() PolicyKind { return ConstructorPolicyKind }
func (p *ConstructorPolicy) Target() reflect.Type { return p.Type }
func (p *ConstructorPolicy) Member() member.Member { return p.Constructor }

// PropertyPolicy 需要注入的属性；Value 为 nil 表示由容器按属性类型解析
type PropertyPolicy struct {
	Registered reflect.Type
	Type       reflect.Type
	Property   member.Property
	Value      *typematch.Arg
}

func (p *PropertyPolicy) Kind() PolicyKind { return PropertyPolicyKind }
func (p *PropertyPolicy) Target() reflect.Type { return p.Type }
func (p *PropertyPolicy) Member() member.Member { return p.Property }

// FieldPolicy 需要注入的字段；Value 为 nil 表示由容器按字段类型解析
type FieldPolicy struct {
	Registered reflect.Type
	Type       reflect.Type
	Field      member.Field
	Value      *typematch.Arg
}

func (p *FieldPolicy) Kind() PolicyKind { return FieldPolicyKind }
func (p *FieldPolicy) Target() reflect.Type { return p.Type }
func (p *FieldPolicy) Member() member.Member { return p.Field }

// MethodPolicy 构建后调用的方法及其参数
type MethodPolicy struct {
	Registered reflect.Type
	Type       reflect.Type
	Method     member.Method
	Args       []typematch.Arg
}

func (p *MethodPolicy) Kind() PolicyKind { return MethodPolicyKind }
func (p *MethodPolicy) Target() reflect.Type { return p.Type }
func (p *MethodPolicy) Member() member.Member { return p.Method }

// Policies 是内存中的 PolicyRegistry，可并发使用。
type Policies struct {
	mu       sync.RWMutex
	policies map[PolicyKey]Policy
	order    []PolicyKey
}

// NewPolicies 创建空注册表
func NewPolicies() *Policies {
	return &Policies{
		policies: make(map[PolicyKey]Policy),
	}
}

// Add 写入策略。
// 同一个键再次写入同一成员时覆盖（参数以后写入的为准）；写入不同成员返回错误。
func (p *Policies) Add(key PolicyKey, policy Policy) error {
	if policy == nil {
		return fmt.Errorf("inject: nil policy for %s", key)
	}
	if policy.Kind() != key.Kind {
		return fmt.Errorf("inject: %s policy stored under key %s", policy.Kind(), key)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.conflict(key, policy); err != nil {
		return err
	}
	p.put(key, policy)
	return nil
}

// Merge 按写入顺序把 staged 的全部策略并入 p。
// 只要有一个键冲突就返回错误，p 保持不变。
func (p *Policies) Merge(staged *Policies) error {
	if staged == p {
		return nil
	}

	staged.mu.RLock()
	defer staged.mu.RUnlock()
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, key := range staged.order {
		if err := p.conflict(key, staged.policies[key]); err != nil {
			return err
		}
	}
	for _, key := range staged.order {
		p.put(key, staged.policies[key])
	}
	return nil
}

func (p *Policies) conflict(key PolicyKey, policy Policy) error {
	existing, ok := p.policies[key]
	if ok && !member.Equal(existing.Member(), policy.Member()) {
		return fmt.Errorf("inject: policy %s already registered with %s", key, describeMember(existing.Member()))
	}
	return nil
}

func (p *Policies) put(key PolicyKey, policy Policy) {
	if _, ok := p.policies[key]; !ok {
		p.order = append(p.order, key)
	}
	p.policies[key] = policy
}

// Get 返回键对应的策略
func (p *Policies) Get(key PolicyKey) (Policy, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	policy, ok := p.policies[key]
	return policy, ok
}

// Len 返回策略数量
func (p *Policies) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.policies)
}

// Keys 按写入顺序返回所有键
func (p *Policies) Keys() []PolicyKey {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]PolicyKey, len(p.order))
	copy(out, p.order)
	return out
}

// For 按写入顺序返回目标类型与注册名称下的全部策略
func (p *Policies) For(target reflect.Type, name string) []Policy {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []Policy
	for _, key := range p.order {
		if key.Type == target && key.Name == name {
			out = append(out, p.policies[key])
		}
	}
	return out
}
