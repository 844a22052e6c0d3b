package member

import (
	"fmt"
	"reflect"
	"sync"
)

// ConstructorName 是构造函数的名称哨兵。Go 没有具名构造函数，所有构造函数共用这个名字。
const ConstructorName = "New"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Constructor 是一个返回目标类型的构造函数。
// 支持 func(...) T 与 func(...) (T, error) 两种形态。
type Constructor struct {
	fn       reflect.Value
	produces reflect.Type
	params   []reflect.Type
	hasError bool
	slot     int // 在 ConstructorTable 中的位置（从 1 开始），未登记时为 0
}

// NewConstructor 检查 fn 的形态并创建 Constructor
func NewConstructor(fn any) (Constructor, error) {
	if fn == nil {
		return Constructor{}, fmt.Errorf("member: constructor is nil")
	}
	fnVal := reflect.ValueOf(fn)
	fnType := fnVal.Type()
	if fnType.Kind() != reflect.Func {
		return Constructor{}, fmt.Errorf("member: constructor must be a function, got %v", fnType)
	}

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return Constructor{}, fmt.Errorf("member: second return value of %v must be error", fnType)
		}
	default:
		return Constructor{}, fmt.Errorf("member: constructor %v must return (T) or (T, error)", fnType)
	}

	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}

	return Constructor{
		fn:       fnVal,
		produces: fnType.Out(0),
		params:   params,
		hasError: fnType.NumOut() == 2,
	}, nil
}

// MustConstructor 与 NewConstructor 相同，失败时 panic
func MustConstructor(fn any) Constructor {
	c, err := NewConstructor(fn)
	if err != nil {
		panic(err)
	}
	return c
}

// MemberName 返回 ConstructorName
func (c Constructor) MemberName() string { return ConstructorName }

// DeclaringType 返回构造函数产出的类型
func (c Constructor) DeclaringType() reflect.Type { return c.produces }

// ParameterTypes 返回参数类型
func (c Constructor) ParameterTypes() []reflect.Type { return c.params }

// Func 返回构造函数本身
func (c Constructor) Func() reflect.Value { return c.fn }

// ReturnsError 报告构造函数是否带 error 返回值
func (c Constructor) ReturnsError() bool { return c.hasError }

// Key 由产出类型、签名、函数代码地址与表内位置组成。
// 同一个函数字面量生成的闭包共享代码地址，只能靠位置区分。
func (c Constructor) Key() string {
	var ptr uintptr
	if c.fn.IsValid() {
		ptr = c.fn.Pointer()
	}
	return fmt.Sprintf("ctor:%v%s@%x#%d", c.produces, signature(c.params), ptr, c.slot)
}

// String 返回可读表示
func (c Constructor) String() string {
	return fmt.Sprintf("%s%s %v", ConstructorName, signature(c.params), c.produces)
}

// ConstructorTable 保存每个类型注册的构造函数，是 Constructor 的 Provider。
// 同一类型可以注册多个构造函数（相当于重载），枚举顺序即注册顺序。
type ConstructorTable struct {
	mu    sync.RWMutex
	ctors map[reflect.Type][]Constructor
}

// NewConstructorTable 创建空表
func NewConstructorTable() *ConstructorTable {
	return &ConstructorTable{
		ctors: make(map[reflect.Type][]Constructor),
	}
}

// Add 注册构造函数，按其第一个返回值的类型归类
func (t *ConstructorTable) Add(fns ...any) error {
	for _, fn := range fns {
		c, err := NewConstructor(fn)
		if err != nil {
			return err
		}

		t.mu.Lock()
		c.slot = len(t.ctors[c.produces]) + 1
		t.ctors[c.produces] = append(t.ctors[c.produces], c)
		t.mu.Unlock()
	}
	return nil
}

// MustAdd 与 Add 相同，失败时 panic
func (t *ConstructorTable) MustAdd(fns ...any) *ConstructorTable {
	if err := t.Add(fns...); err != nil {
		panic(err)
	}
	return t
}

// DeclaredMembers 返回产出 target 的构造函数
func (t *ConstructorTable) DeclaredMembers(target reflect.Type) []Constructor {
	t.mu.RLock()
	defer t.mu.RUnlock()

	list := t.ctors[target]
	out := make([]Constructor, len(list))
	copy(out, list)
	return out
}

func signature(types []reflect.Type) string {
	s := "("
	for i, p := range types {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ")"
}
