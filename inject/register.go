package inject

import (
	"fmt"
	"reflect"

	"github.com/oss-evaluation-repository/unitycontainer-abstractions/logging"
)

// Registrar 把一次注册的全部指令依次应用到策略注册表。
// 它代表容器的注册路径：任何一个指令失败，整次注册即视为无效。
type Registrar struct {
	registry PolicyRegistry
	logger   logging.Logger
}

// NewRegistrar 创建 Registrar；logger 为 nil 时不输出日志
func NewRegistrar(registry PolicyRegistry, logger logging.Logger) *Registrar {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Registrar{
		registry: registry,
		logger:   logger.WithCategory("inject"),
	}
}

// Registry 返回策略注册表
func (r *Registrar) Registry() PolicyRegistry { return r.registry }

// Register 把 directives 应用到 registered -> target（注册名称为 name）的映射上。
// 返回值表示是否有指令要求重新构建目标类型。
func (r *Registrar) Register(registered, target reflect.Type, name string, directives ...Directive) (bool, error) {
	if target == nil {
		return false, fmt.Errorf("inject: target type is nil")
	}
	if registered == nil {
		registered = target
	}

	log := r.logger.WithFields(
		logging.Field{Key: "registered", Value: registered},
		logging.Field{Key: "type", Value: target},
		logging.Field{Key: "name", Value: name},
	)

	// 先写入暂存区，全部成功后再提交
	staged := NewPolicies()
	buildRequired := false
	for _, d := range directives {
		if err := d.ContributePolicies(registered, target, name, staged); err != nil {
			log.Error("injection directive rejected", logging.Field{Key: "error", Value: err})
			return false, err
		}
		buildRequired = buildRequired || d.BuildRequired()

		log.Debug("injection member resolved", logging.Field{Key: "member", Value: d})
	}

	if err := r.commit(staged); err != nil {
		log.Error("injection policies rejected", logging.Field{Key: "error", Value: err})
		return false, err
	}
	return buildRequired, nil
}

// commit 把暂存的策略写入注册表。
// 注册表实现 Merge 时整体提交；否则逐个 Add，冲突时可能只写入一部分。
func (r *Registrar) commit(staged *Policies) error {
	if m, ok := r.registry.(interface{ Merge(*Policies) error }); ok {
		return m.Merge(staged)
	}
	for _, key := range staged.Keys() {
		policy, _ := staged.Get(key)
		if err := r.registry.Add(key, policy); err != nil {
			return err
		}
	}
	return nil
}

// RegisterType 是 Register 的泛型版本：把 TTo 映射为 TFrom
//
// 示例：
//
//	inject.RegisterType[Store, *sqlStore](r, "", inject.NewConstructor(table, reflect.TypeOf("")))
func RegisterType[TFrom, TTo any](r *Registrar, name string, directives ...Directive) (bool, error) {
	return r.Register(
		reflect.TypeOf((*TFrom)(nil)).Elem(),
		reflect.TypeOf((*TTo)(nil)).Elem(),
		name,
		directives...,
	)
}
