package inject

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrAmbiguousMember 多个成员同时匹配
	ErrAmbiguousMember = errors.New("inject: ambiguous member")
	// ErrNoMatchingMember 没有成员匹配
	ErrNoMatchingMember = errors.New("inject: no matching member")
	// ErrAlreadyResolved 已解析的成员不能被替换
	ErrAlreadyResolved = errors.New("inject: member already resolved")
)

// ErrorKind 配置错误的种类
type ErrorKind int

const (
	// AmbiguousMember 在已选中一个成员后又有成员匹配
	AmbiguousMember ErrorKind = iota
	// NoMatchingMember 扫描结束后没有选中任何成员
	NoMatchingMember
)

// String 返回种类名称
func (k ErrorKind) String() string {
	switch k {
	case AmbiguousMember:
		return "ambiguous member"
	case NoMatchingMember:
		return "no matching member"
	default:
		return "unknown"
	}
}

// ConfigurationError 表示指令无法绑定到唯一成员。
// 注册应视为无效，不做任何部分恢复。
type ConfigurationError struct {
	Kind ErrorKind
	// Type 目标类型
	Type reflect.Type
	// Member 请求的成员名称
	Member string
	// Signature 请求的成员签名，如 "New(string, int)"
	Signature string
	// Conflicts 歧义时依次为先选中的成员与第一个冲突的成员
	Conflicts []string
}

func (e *ConfigurationError) Error() string {
	switch e.Kind {
	case AmbiguousMember:
		return fmt.Sprintf("inject: ambiguous member %s on type %v: matches %s",
			e.Signature, e.Type, strings.Join(e.Conflicts, " and "))
	default:
		return fmt.Sprintf("inject: no member %s on type %v", e.Signature, e.Type)
	}
}

// Is 支持 errors.Is(err, ErrAmbiguousMember) 与 errors.Is(err, ErrNoMatchingMember)
func (e *ConfigurationError) Is(target error) bool {
	switch target {
	case ErrAmbiguousMember:
		return e.Kind == AmbiguousMember
	case ErrNoMatchingMember:
		return e.Kind == NoMatchingMember
	}
	return false
}
