package inject

import (
	"github.com/oss-evaluation-repository/unitycontainer-abstractions/member"
	"github.com/oss-evaluation-repository/unitycontainer-abstractions/typematch"
)

// MemberMatcher 是携带数据时的匹配谓词。
type MemberMatcher[M member.Member, D any] interface {
	MatchMember(candidate M, name string, data D) bool
}

// MatcherFunc 将函数适配为 MemberMatcher
type MatcherFunc[M member.Member, D any] func(candidate M, name string, data D) bool

// MatchMember 调用 f
func (f MatcherFunc[M, D]) MatchMember(candidate M, name string, data D) bool {
	return f(candidate, name, data)
}

// NameMatcher 只比较名称，是默认谓词
type NameMatcher[M member.Member, D any] struct{}

// MatchMember 比较 candidate 的名称
func (NameMatcher[M, D]) MatchMember(candidate M, name string, _ D) bool {
	return candidate.MemberName() == name
}

// SignatureMatcher 比较名称，并用 typematch 逐个比较参数
type SignatureMatcher[M member.Parameterized] struct{}

// MatchMember 名称相同且 args 与参数类型逐个兼容
func (SignatureMatcher[M]) MatchMember(candidate M, name string, args []typematch.Arg) bool {
	if candidate.MemberName() != name {
		return false
	}
	return typematch.MatchesAll(args, candidate.ParameterTypes())
}

// TypedMatcher 比较名称，并检查值或类型能否赋给成员自身的类型
type TypedMatcher[M member.Typed] struct{}

// MatchMember 名称相同且 value 与成员类型兼容
func (TypedMatcher[M]) MatchMember(candidate M, name string, value typematch.Arg) bool {
	if candidate.MemberName() != name {
		return false
	}
	return typematch.Matches(value, candidate.Type())
}
