package inject

import (
	"github.com/oss-evaluation-repository/unitycontainer-abstractions/member"
)

// Once 是只能写入一次的成员槽位。
// 不是并发安全的：同一个指令的解析必须由调用方串行化。
type Once[M member.Member] struct {
	value M
	set   bool
}

// Get 返回已写入的成员
func (o *Once[M]) Get() (M, bool) {
	return o.value, o.set
}

// Set 写入成员。重复写入相同成员是 no-op，写入不同成员返回 ErrAlreadyResolved。
func (o *Once[M]) Set(m M) error {
	if o.set {
		if member.Equal(o.value, m) {
			return nil
		}
		return ErrAlreadyResolved
	}
	o.value = m
	o.set = true
	return nil
}
