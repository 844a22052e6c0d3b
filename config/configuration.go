// Package config 从 YAML / JSON 文件、环境变量、内存与 etcd 读取配置，
// 按添加顺序合并（后加入的源覆盖先加入的）。
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
)

// Configuration 配置接口
type Configuration interface {
	// Get 获取配置值，不存在时返回空串
	Get(key string) string
	// GetWithDefault 获取配置值，如果不存在则返回默认值
	GetWithDefault(key, defaultValue string) string
	// GetInt 获取整数配置值
	GetInt(key string) (int, error)
	// GetBool 获取布尔配置值
	GetBool(key string) (bool, error)
	// GetSection 获取配置节
	GetSection(key string) Configuration
	// Bind 绑定配置到结构体
	Bind(key string, target any) error
	// BindStrict 绑定配置到结构体，拒绝未知字段
	BindStrict(key string, target any) error
	// GetAll 获取所有配置
	GetAll() map[string]any
}

// ConfigurationSource 配置源接口
type ConfigurationSource interface {
	Load() (map[string]any, error)
	Name() string
}

// ConfigurationBuilder 配置构建器
type ConfigurationBuilder struct {
	sources []ConfigurationSource
	mu      sync.RWMutex
}

// NewConfigurationBuilder 创建配置构建器
func NewConfigurationBuilder() *ConfigurationBuilder {
	return &ConfigurationBuilder{}
}

// Add 添加配置源
func (b *ConfigurationBuilder) Add(source ConfigurationSource) *ConfigurationBuilder {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sources = append(b.sources, source)
	return b
}

// AddJsonFile 添加 JSON 文件配置源
func (b *ConfigurationBuilder) AddJsonFile(path string, optional ...bool) *ConfigurationBuilder {
	return b.Add(&JsonFileSource{Path: path, Optional: len(optional) > 0 && optional[0]})
}

// AddYamlFile 添加 YAML 文件配置源
func (b *ConfigurationBuilder) AddYamlFile(path string, optional ...bool) *ConfigurationBuilder {
	return b.Add(&YamlFileSource{Path: path, Optional: len(optional) > 0 && optional[0]})
}

// AddEnvironmentVariables 添加环境变量配置源
func (b *ConfigurationBuilder) AddEnvironmentVariables(prefix string) *ConfigurationBuilder {
	return b.Add(&EnvironmentVariableSource{Prefix: prefix})
}

// AddInMemory 添加内存配置源
func (b *ConfigurationBuilder) AddInMemory(data map[string]any) *ConfigurationBuilder {
	return b.Add(&InMemorySource{Data: data})
}

// AddEtcd 添加 etcd 配置源
func (b *ConfigurationBuilder) AddEtcd(opts EtcdOptions) *ConfigurationBuilder {
	return b.Add(&EtcdSource{Options: opts.withDefaults()})
}

func (b *ConfigurationBuilder) load() (map[string]any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data := make(map[string]any)
	for _, source := range b.sources {
		loaded, err := source.Load()
		if err != nil {
			return nil, fmt.Errorf("config: failed to load source %s: %w", source.Name(), err)
		}
		mergeMaps(data, loaded)
	}
	return data, nil
}

// Build 构建配置
func (b *ConfigurationBuilder) Build() (Configuration, error) {
	return b.BuildReloadable()
}

// BuildReloadable 构建可重新加载的配置
func (b *ConfigurationBuilder) BuildReloadable() (*ReloadableConfiguration, error) {
	data, err := b.load()
	if err != nil {
		return nil, err
	}

	store := NewValueStore()
	store.Store(data)
	return &ReloadableConfiguration{
		configuration: configuration{store: store},
		builder:       b,
	}, nil
}

// ReloadableConfiguration 可以重新读取全部配置源的配置
type ReloadableConfiguration struct {
	configuration
	builder *ConfigurationBuilder

	mu        sync.Mutex
	callbacks []func()
}

// Reload 重新读取全部配置源，成功后原子替换数据并通知回调
func (c *ReloadableConfiguration) Reload() error {
	data, err := c.builder.load()
	if err != nil {
		return err
	}
	c.store.Store(data)

	c.mu.Lock()
	callbacks := make([]func(), len(c.callbacks))
	copy(callbacks, c.callbacks)
	c.mu.Unlock()

	for _, cb := range callbacks {
		cb()
	}
	return nil
}

// OnReload 注册重新加载后的回调
func (c *ReloadableConfiguration) OnReload(cb func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.callbacks = append(c.callbacks, cb)
}

// configuration 配置实现，数据快照存放在 ValueStore 中，读取无锁
type configuration struct {
	store *ValueStore
}

func newSection(data map[string]any) *configuration {
	store := NewValueStore()
	store.Store(data)
	return &configuration{store: store}
}

// Get 获取配置值
func (c *configuration) Get(key string) string {
	value := c.getByPath(key)
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// GetWithDefault 获取配置值，如果不存在则返回默认值
func (c *configuration) GetWithDefault(key, defaultValue string) string {
	if value := c.Get(key); value != "" {
		return value
	}
	return defaultValue
}

// GetInt 获取整数配置值
func (c *configuration) GetInt(key string) (int, error) {
	value := c.getByPath(key)
	if value == nil {
		return 0, fmt.Errorf("config: key %s not found", key)
	}

	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fmt.Errorf("config: cannot convert %v to int", value)
	}
}

// GetBool 获取布尔配置值
func (c *configuration) GetBool(key string) (bool, error) {
	value := c.getByPath(key)
	if value == nil {
		return false, fmt.Errorf("config: key %s not found", key)
	}

	switch v := value.(type) {
	case bool:
		return v, nil
	case string:
		return strconv.ParseBool(v)
	default:
		return false, fmt.Errorf("config: cannot convert %v to bool", value)
	}
}

// GetSection 获取配置节，不存在时返回空配置
func (c *configuration) GetSection(key string) Configuration {
	if m, ok := c.getByPath(key).(map[string]any); ok {
		return newSection(m)
	}
	return newSection(make(map[string]any))
}

// Bind 通过 JSON 序列化/反序列化把配置绑定到 target
func (c *configuration) Bind(key string, target any) error {
	return c.bind(key, target, false)
}

// BindStrict 与 Bind 相同，但配置中出现 target 没有的字段时报错
func (c *configuration) BindStrict(key string, target any) error {
	return c.bind(key, target, true)
}

func (c *configuration) bind(key string, target any, strict bool) error {
	data := c.getByPath(key)
	if data == nil {
		return fmt.Errorf("config: key %s not found", key)
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("config: failed to marshal %s: %w", key, err)
	}

	dec := json.NewDecoder(bytes.NewReader(jsonData))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("config: failed to bind %s: %w", key, err)
	}
	return nil
}

// GetAll 获取所有配置（副本）
func (c *configuration) GetAll() map[string]any {
	result := make(map[string]any)
	mergeMaps(result, c.store.Load())
	return result
}

// getByPath 通过路径获取值（支持 "a:b:c" 或 "a.b.c"）
func (c *configuration) getByPath(path string) any {
	data := c.store.Load()
	if path == "" {
		return data
	}

	current := any(data)
	for _, part := range globalPathCache.GetPathSegments(path) {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[part]
	}
	return current
}

// mergeMaps 把 src 深度合并进 dst
func mergeMaps(dst, src map[string]any) {
	for k, v := range src {
		if dstMap, ok := dst[k].(map[string]any); ok {
			if srcMap, ok := v.(map[string]any); ok {
				mergeMaps(dstMap, srcMap)
				continue
			}
		}
		if srcMap, ok := v.(map[string]any); ok {
			copied := make(map[string]any, len(srcMap))
			mergeMaps(copied, srcMap)
			dst[k] = copied
			continue
		}
		dst[k] = v
	}
}
