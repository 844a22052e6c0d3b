package inject

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/oss-evaluation-repository/unitycontainer-abstractions/typematch"
)

// TypeCatalog 把配置文本中的类型名映射为 reflect.Type。
// 内置常用标量名称；"*T" 与 "[]T" 前缀会递归解析。
type TypeCatalog struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}

// NewTypeCatalog 创建包含内置类型的目录
func NewTypeCatalog() *TypeCatalog {
	c := &TypeCatalog{types: make(map[string]reflect.Type)}
	for _, t := range []reflect.Type{
		reflect.TypeOf(false),
		reflect.TypeOf(""),
		reflect.TypeOf(0),
		reflect.TypeOf(int8(0)),
		reflect.TypeOf(int16(0)),
		reflect.TypeOf(int32(0)),
		reflect.TypeOf(int64(0)),
		reflect.TypeOf(uint(0)),
		reflect.TypeOf(uint8(0)),
		reflect.TypeOf(uint16(0)),
		reflect.TypeOf(uint32(0)),
		reflect.TypeOf(uint64(0)),
		reflect.TypeOf(float32(0)),
		reflect.TypeOf(float64(0)),
	} {
		c.types[t.String()] = t
	}
	c.types["any"] = reflect.TypeOf((*any)(nil)).Elem()
	c.types["error"] = reflect.TypeOf((*error)(nil)).Elem()
	c.types["byte"] = reflect.TypeOf(byte(0))
	c.types["rune"] = reflect.TypeOf(rune(0))
	c.types["[]..."] = typematch.AnyArray
	return c
}

// Add 以 name 注册类型；name 为空时使用 t.String()
func (c *TypeCatalog) Add(name string, t reflect.Type) *TypeCatalog {
	if name == "" {
		name = t.String()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.types[name] = t
	return c
}

// AddType 注册类型 T（泛型辅助函数）
func AddType[T any](c *TypeCatalog, name string) *TypeCatalog {
	return c.Add(name, reflect.TypeOf((*T)(nil)).Elem())
}

// Lookup 解析类型名
func (c *TypeCatalog) Lookup(name string) (reflect.Type, error) {
	name = strings.TrimSpace(name)

	c.mu.RLock()
	t, ok := c.types[name]
	c.mu.RUnlock()
	if ok {
		return t, nil
	}

	switch {
	case strings.HasPrefix(name, "*"):
		elem, err := c.Lookup(name[1:])
		if err != nil {
			return nil, err
		}
		return reflect.PointerTo(elem), nil
	case strings.HasPrefix(name, "[]"):
		elem, err := c.Lookup(name[2:])
		if err != nil {
			return nil, err
		}
		return reflect.SliceOf(elem), nil
	}

	return nil, fmt.Errorf("inject: unknown type %q", name)
}
