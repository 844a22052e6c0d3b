package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"gopkg.in/yaml.v3"
)

// JsonFileSource JSON 文件配置源
type JsonFileSource struct {
	Path     string
	Optional bool
}

func (s *JsonFileSource) Name() string {
	return fmt.Sprintf("JsonFile(%s)", s.Path)
}

func (s *JsonFileSource) Load() (map[string]any, error) {
	data, err := readOptional(s.Path, s.Optional)
	if err != nil || data == nil {
		return make(map[string]any), err
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return result, nil
}

// YamlFileSource YAML 文件配置源
type YamlFileSource struct {
	Path     string
	Optional bool
}

func (s *YamlFileSource) Name() string {
	return fmt.Sprintf("YamlFile(%s)", s.Path)
}

func (s *YamlFileSource) Load() (map[string]any, error) {
	data, err := readOptional(s.Path, s.Optional)
	if err != nil || data == nil {
		return make(map[string]any), err
	}
	return ParseYaml(data)
}

// ParseYaml 解析 YAML 文档为配置数据；空文档返回空 map
func ParseYaml(data []byte) (map[string]any, error) {
	var result map[string]any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if result == nil {
		result = make(map[string]any)
	}
	return result, nil
}

func readOptional(path string, optional bool) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

// EnvironmentVariableSource 环境变量配置源。
// PREFIX_A_B=1 会被读成 a:b = 1。
type EnvironmentVariableSource struct {
	Prefix string
}

func (s *EnvironmentVariableSource) Name() string {
	return fmt.Sprintf("EnvironmentVariables(%s)", s.Prefix)
}

func (s *EnvironmentVariableSource) Load() (map[string]any, error) {
	result := make(map[string]any)

	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if s.Prefix != "" {
			if !strings.HasPrefix(key, s.Prefix) {
				continue
			}
			key = strings.TrimPrefix(key, s.Prefix)
		}

		key = strings.ToLower(strings.Trim(key, "_"))
		if key == "" {
			continue
		}
		setNestedValue(result, strings.ReplaceAll(key, "_", ":"), value)
	}

	return result, nil
}

// InMemorySource 内存配置源
type InMemorySource struct {
	Data map[string]any
}

func (s *InMemorySource) Name() string {
	return "InMemory"
}

func (s *InMemorySource) Load() (map[string]any, error) {
	result := make(map[string]any)
	mergeMaps(result, s.Data)
	return result, nil
}

// setNestedValue 按 "a:b:c" 路径设置值，字符串值会尝试转换为数字或布尔
func setNestedValue(data map[string]any, path string, value any) {
	parts := strings.Split(path, ":")
	current := data

	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			if _, exists := current[part]; exists {
				return
			}
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}

	if str, ok := value.(string); ok {
		if i, err := strconv.Atoi(str); err == nil {
			value = i
		} else if f, err := strconv.ParseFloat(str, 64); err == nil {
			value = f
		} else if b, err := strconv.ParseBool(str); err == nil {
			value = b
		}
	}

	current[parts[len(parts)-1]] = value
}

// EtcdOptions etcd 配置选项
type EtcdOptions struct {
	Endpoints   []string      // etcd 服务器地址列表
	Username    string        // 用户名（可选）
	Password    string        // 密码（可选）
	Prefix      string        // 键前缀（可选）
	Timeout     time.Duration // 读取超时时间（默认 5 秒）
	DialTimeout time.Duration // 拨号超时时间（默认 5 秒）
}

func (o EtcdOptions) withDefaults() EtcdOptions {
	if o.Timeout == 0 {
		o.Timeout = 5 * time.Second
	}
	if o.DialTimeout == 0 {
		o.DialTimeout = 5 * time.Second
	}
	return o
}

// EtcdSource etcd 配置源。
// 键 /prefix/a/b 被读成 a:b；值依次尝试按 JSON、YAML 解析，都失败时保留字符串。
type EtcdSource struct {
	Options EtcdOptions
}

func (s *EtcdSource) Name() string {
	return fmt.Sprintf("Etcd(%v)", s.Options.Endpoints)
}

func (s *EtcdSource) Load() (map[string]any, error) {
	opts := s.Options.withDefaults()

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   opts.Endpoints,
		Username:    opts.Username,
		Password:    opts.Password,
		DialTimeout: opts.DialTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}
	defer cli.Close()

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	prefix := opts.Prefix
	if prefix == "" {
		prefix = "/"
	}

	resp, err := cli.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to get config from etcd: %w", err)
	}

	pairs := make([][2]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		pairs = append(pairs, [2]string{string(kv.Key), string(kv.Value)})
	}
	return flattenEtcd(opts.Prefix, pairs), nil
}

// flattenEtcd 把 etcd 键值对转换为嵌套配置数据
func flattenEtcd(prefix string, pairs [][2]string) map[string]any {
	result := make(map[string]any)

	for _, kv := range pairs {
		key := strings.TrimPrefix(kv[0], prefix)
		key = strings.Trim(key, "/")
		if key == "" {
			continue
		}
		key = strings.ReplaceAll(key, "/", ":")

		var decoded any
		if err := json.Unmarshal([]byte(kv[1]), &decoded); err == nil {
			setNestedValue(result, key, decoded)
			continue
		}
		if err := yaml.Unmarshal([]byte(kv[1]), &decoded); err == nil {
			if _, isString := decoded.(string); !isString && decoded != nil {
				setNestedValue(result, key, decoded)
				continue
			}
		}
		setNestedValue(result, key, kv[1])
	}

	return result
}
