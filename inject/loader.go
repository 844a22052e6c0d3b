package inject

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/oss-evaluation-repository/unitycontainer-abstractions/config"
	"github.com/oss-evaluation-repository/unitycontainer-abstractions/member"
	"github.com/oss-evaluation-repository/unitycontainer-abstractions/typematch"
)

// Registration 是一次类型映射及其注入指令
type Registration struct {
	Registered reflect.Type
	Target     reflect.Type
	Name       string
	Directives []Directive
}

// Apply 通过 r 应用该注册
func (reg Registration) Apply(r *Registrar) (bool, error) {
	return r.Register(reg.Registered, reg.Target, reg.Name, reg.Directives...)
}

// ApplyAll 依次应用全部注册，遇到第一个错误即停止
func ApplyAll(r *Registrar, regs []Registration) error {
	for _, reg := range regs {
		if _, err := reg.Apply(r); err != nil {
			return err
		}
	}
	return nil
}

// argConfig 参数描述：
//   - 只有 type：类型占位符
//   - 只有 value：字面量
//   - 两者都有：把 value 转换为 type 后作为字面量，数值必须能精确表示
//
// value 保留原始 JSON，避免数值先被解码成 float64 而丢失精度。
type argConfig struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type memberConfig struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

type constructorConfig struct {
	Args []argConfig `json:"args"`
}

type methodConfig struct {
	Name string      `json:"name"`
	Args []argConfig `json:"args"`
}

type registrationConfig struct {
	Type        string             `json:"type"`
	MapTo       string             `json:"mapTo"`
	Name        string             `json:"name"`
	Constructor *constructorConfig `json:"constructor"`
	Properties  []memberConfig     `json:"properties"`
	Fields      []memberConfig     `json:"fields"`
	Methods     []methodConfig     `json:"methods"`
}

// LoadRegistrations 从配置节 section 读取注册列表，例如：
//
//	injection:
//	  - type: Store
//	    mapTo: "*SqlStore"
//	    constructor:
//	      args:
//	        - type: string
//	        - value: 30
//	          type: int
//	    properties:
//	      - name: Logger
//	    methods:
//	      - name: Init
//	        args: [{type: string}]
//
// 类型名通过 catalog 解析，构造函数通过 ctors 枚举。
func LoadRegistrations(cfg config.Configuration, section string, catalog *TypeCatalog, ctors member.Provider[member.Constructor]) ([]Registration, error) {
	entries, err := config.LoadStrict[[]registrationConfig](cfg, section)
	if err != nil {
		return nil, fmt.Errorf("inject: load %s: %w", section, err)
	}

	regs := make([]Registration, 0, len(entries))
	for i, entry := range entries {
		reg, err := entry.build(catalog, ctors)
		if err != nil {
			return nil, fmt.Errorf("inject: %s[%d]: %w", section, i, err)
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

func (rc registrationConfig) build(catalog *TypeCatalog, ctors member.Provider[member.Constructor]) (Registration, error) {
	var reg Registration

	targetName := rc.MapTo
	if targetName == "" {
		targetName = rc.Type
	}
	if targetName == "" {
		return reg, fmt.Errorf("type or mapTo is required")
	}

	target, err := catalog.Lookup(targetName)
	if err != nil {
		return reg, err
	}
	registered := target
	if rc.Type != "" {
		if registered, err = catalog.Lookup(rc.Type); err != nil {
			return reg, err
		}
	}

	reg = Registration{Registered: registered, Target: target, Name: rc.Name}

	if rc.Constructor != nil {
		if ctors == nil {
			return reg, fmt.Errorf("constructor configured for %v but no constructors are available", target)
		}
		args, err := buildArgs(rc.Constructor.Args, catalog)
		if err != nil {
			return reg, fmt.Errorf("constructor: %w", err)
		}
		reg.Directives = append(reg.Directives, NewConstructor(ctors, args...))
	}

	for _, p := range rc.Properties {
		value, hasValue, err := p.arg(catalog)
		if err != nil {
			return reg, fmt.Errorf("property %s: %w", p.Name, err)
		}
		if hasValue {
			reg.Directives = append(reg.Directives, NewPropertyValue(p.Name, value))
		} else {
			reg.Directives = append(reg.Directives, NewProperty(p.Name))
		}
	}

	for _, f := range rc.Fields {
		value, hasValue, err := f.arg(catalog)
		if err != nil {
			return reg, fmt.Errorf("field %s: %w", f.Name, err)
		}
		if hasValue {
			reg.Directives = append(reg.Directives, NewFieldValue(f.Name, value))
		} else {
			reg.Directives = append(reg.Directives, NewField(f.Name))
		}
	}

	for _, m := range rc.Methods {
		args, err := buildArgs(m.Args, catalog)
		if err != nil {
			return reg, fmt.Errorf("method %s: %w", m.Name, err)
		}
		reg.Directives = append(reg.Directives, NewMethod(m.Name, args...))
	}

	return reg, nil
}

func (mc memberConfig) arg(catalog *TypeCatalog) (typematch.Arg, bool, error) {
	if mc.Name == "" {
		return typematch.Arg{}, false, fmt.Errorf("name is required")
	}
	if mc.Type == "" && isNull(mc.Value) {
		return typematch.Arg{}, false, nil
	}
	a, err := argConfig{Type: mc.Type, Value: mc.Value}.build(catalog)
	return a, err == nil, err
}

func buildArgs(cfgs []argConfig, catalog *TypeCatalog) ([]any, error) {
	args := make([]any, len(cfgs))
	for i, c := range cfgs {
		a, err := c.build(catalog)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		args[i] = a
	}
	return args, nil
}

func (ac argConfig) build(catalog *TypeCatalog) (typematch.Arg, error) {
	var value any
	if !isNull(ac.Value) {
		dec := json.NewDecoder(bytes.NewReader(ac.Value))
		dec.UseNumber()
		if err := dec.Decode(&value); err != nil {
			return typematch.Arg{}, fmt.Errorf("value %s: %w", ac.Value, err)
		}
	}

	if ac.Type == "" {
		return typematch.Literal(plain(value)), nil
	}

	t, err := catalog.Lookup(ac.Type)
	if err != nil {
		return typematch.Arg{}, err
	}
	if value == nil {
		return typematch.Placeholder(t), nil
	}

	converted, err := convertValue(value, t)
	if err != nil {
		return typematch.Arg{}, err
	}
	return typematch.Literal(converted), nil
}

// convertValue 把解码后的值转换为 t。数值超出范围或不能精确表示时报错；
// 不做 int -> string 之类的隐式转换。
func convertValue(value any, t reflect.Type) (any, error) {
	if n, ok := value.(json.Number); ok {
		return convertNumber(n, t)
	}

	value = plain(value)
	v := reflect.ValueOf(value)
	switch {
	case v.Type().AssignableTo(t):
		return value, nil
	case t.Kind() == reflect.String || v.Kind() == reflect.String:
	case v.CanConvert(t):
		return v.Convert(t).Interface(), nil
	}
	return nil, fmt.Errorf("value %v (%T) cannot be used as %v", value, value, t)
}

func convertNumber(n json.Number, t reflect.Type) (any, error) {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(n.String(), 10, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("value %s is not an exact %v", n, t)
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(n.String(), 10, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("value %s is not an exact %v", n, t)
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(n.String(), t.Bits())
		if err != nil {
			return nil, fmt.Errorf("value %s is out of range for %v", n, t)
		}
		out.SetFloat(f)
	case reflect.Interface:
		v := reflect.ValueOf(plain(n))
		if !v.Type().AssignableTo(t) {
			return nil, fmt.Errorf("value %s cannot be used as %v", n, t)
		}
		out.Set(v)
	default:
		return nil, fmt.Errorf("value %s cannot be used as %v", n, t)
	}
	return out.Interface(), nil
}

// plain 把 json.Number 还原为 int（整数）或 float64，并递归处理列表与对象
func plain(value any) any {
	switch v := value.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(v.String(), 10, 0); err == nil {
			return int(i)
		}
		f, _ := v.Float64()
		return f
	case []any:
		for i := range v {
			v[i] = plain(v[i])
		}
		return v
	case map[string]any:
		for k := range v {
			v[k] = plain(v[k])
		}
		return v
	}
	return value
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
