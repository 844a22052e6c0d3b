package member_test

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oss-evaluation-repository/unitycontainer-abstractions/member"
)

type Inner struct {
	Value  int
	Shared string
}

type Other struct {
	Value string
}

type Outer struct {
	Inner
	*Other
	Shared bool
	Name   string
	secret int
}

type Service struct {
	Name string
}

func NewService() *Service { return &Service{} }

func NewNamedService(name string) *Service { return &Service{Name: name} }

func OpenService(r io.Reader, size int) (*Service, error) { return nil, errors.New("closed") }

func (s *Service) Init(name string) {}

func (s Service) Describe() string { return s.Name }

func names[M member.Member](ms []M) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.MemberName()
	}
	return out
}

func TestFieldsWalk(t *testing.T) {
	fields := member.Fields{}.DeclaredMembers(reflect.TypeOf(Outer{}))

	// 深度 0: Inner, Other, Shared, Name, secret
	// 深度 1: Inner.Value, Other.Value（同深度同名，都保留）；Inner.Shared 被遮蔽
	assert.Equal(t, []string{"Inner", "Other", "Shared", "Name", "secret", "Value", "Value"}, names(fields))

	value := fields[5]
	assert.Equal(t, []int{0, 0}, value.Index())
	assert.Equal(t, 1, value.Depth())
	assert.Equal(t, reflect.TypeOf(0), value.Type())
	assert.Equal(t, []int{1, 0}, fields[6].Index())
	assert.NotEqual(t, fields[5].Key(), fields[6].Key())
}

type Core struct {
	Value int
}

type Left struct {
	Core
}

type Right struct {
	Core
}

type Diamond struct {
	Left
	Right
}

type Loop struct {
	*Loop
	Value int
}

func TestFieldsWalkSameTypeTwiceAtOneDepth(t *testing.T) {
	fields := member.Fields{}.DeclaredMembers(reflect.TypeOf(Diamond{}))

	assert.Equal(t, []string{"Left", "Right", "Core", "Core", "Value", "Value"}, names(fields))
	assert.Equal(t, []int{0, 0, 0}, fields[4].Index())
	assert.Equal(t, []int{1, 0, 0}, fields[5].Index())
	assert.NotEqual(t, fields[4].Key(), fields[5].Key())

	// reflect 同样认为该名称有歧义
	_, ok := reflect.TypeOf(Diamond{}).FieldByName("Value")
	assert.False(t, ok)
}

func TestFieldsWalkPointerCycle(t *testing.T) {
	fields := member.Fields{}.DeclaredMembers(reflect.TypeOf(Loop{}))
	assert.Equal(t, []string{"Loop", "Value"}, names(fields))
}

func TestPropertiesSkipUnexported(t *testing.T) {
	props := member.Properties{}.DeclaredMembers(reflect.TypeOf(&Outer{}))
	assert.NotContains(t, names(props), "secret")
	assert.Contains(t, names(props), "Name")

	// 指针目标按元素类型枚举，但 DeclaringType 保留原始类型
	assert.Equal(t, reflect.TypeOf(&Outer{}), props[0].DeclaringType())
}

func TestFieldsOfNonStruct(t *testing.T) {
	assert.Empty(t, member.Fields{}.DeclaredMembers(reflect.TypeOf(0)))
	assert.Empty(t, member.Fields{}.DeclaredMembers(nil))
}

func TestPropertyAndFieldKeysDiffer(t *testing.T) {
	f := member.Fields{}.DeclaredMembers(reflect.TypeOf(Service{}))[0]
	p := member.Properties{}.DeclaredMembers(reflect.TypeOf(Service{}))[0]
	assert.NotEqual(t, f.Key(), p.Key())
	assert.False(t, member.Equal(f, p))
	assert.True(t, member.Equal(p, p))
}

func TestConstructorTable(t *testing.T) {
	table := member.NewConstructorTable()
	require.NoError(t, table.Add(NewService, NewNamedService, OpenService))

	ctors := table.DeclaredMembers(reflect.TypeOf(&Service{}))
	require.Len(t, ctors, 3)

	assert.Empty(t, ctors[0].ParameterTypes())
	assert.Equal(t, []reflect.Type{reflect.TypeOf("")}, ctors[1].ParameterTypes())
	assert.True(t, ctors[2].ReturnsError())
	assert.Equal(t, member.ConstructorName, ctors[2].MemberName())
	assert.Equal(t, "New(io.Reader, int) *member_test.Service", ctors[2].String())

	assert.NotEqual(t, ctors[0].Key(), ctors[1].Key())
	assert.Empty(t, table.DeclaredMembers(reflect.TypeOf(Service{})))
}

func TestConstructorKeyDistinguishesClosures(t *testing.T) {
	named := func(name string) func() *Service {
		return func() *Service { return &Service{Name: name} }
	}
	table := member.NewConstructorTable().MustAdd(named("a"), named("b"))

	ctors := table.DeclaredMembers(reflect.TypeOf(&Service{}))
	require.Len(t, ctors, 2)
	assert.Equal(t, ctors[0].Func().Pointer(), ctors[1].Func().Pointer())
	assert.NotEqual(t, ctors[0].Key(), ctors[1].Key())
	assert.False(t, member.Equal(ctors[0], ctors[1]))

	again := table.DeclaredMembers(reflect.TypeOf(&Service{}))
	assert.True(t, member.Equal(ctors[0], again[0]))
}

func TestConstructorValidation(t *testing.T) {
	cases := []any{
		nil,
		42,
		func() {},
		func() (int, string) { return 0, "" },
		func() (int, error, bool) { return 0, nil, false },
	}
	for _, fn := range cases {
		_, err := member.NewConstructor(fn)
		assert.Error(t, err, "%T", fn)
	}

	assert.Panics(t, func() { member.MustConstructor(7) })
}

func TestMethods(t *testing.T) {
	methods := member.Methods{}.DeclaredMembers(reflect.TypeOf(Service{}))
	assert.Equal(t, []string{"Describe", "Init"}, names(methods))

	init := methods[1]
	assert.Equal(t, []reflect.Type{reflect.TypeOf("")}, init.ParameterTypes())
	assert.Equal(t, reflect.TypeOf(&Service{}), init.DeclaringType())
	assert.Equal(t, "Init(string)", init.String())

	readers := member.Methods{}.DeclaredMembers(reflect.TypeOf((*io.Reader)(nil)).Elem())
	require.Len(t, readers, 1)
	assert.Equal(t, []reflect.Type{reflect.TypeOf([]byte(nil))}, readers[0].ParameterTypes())
}

func TestStaticProvider(t *testing.T) {
	ctor := member.MustConstructor(NewService)
	static := member.Static[member.Constructor]{ctor}

	got := static.DeclaredMembers(nil)
	require.Len(t, got, 1)
	got[0] = member.Constructor{}
	assert.True(t, member.Equal(ctor, static.DeclaredMembers(nil)[0]))

	fn := member.ProviderFunc[member.Constructor](func(reflect.Type) []member.Constructor {
		return []member.Constructor{ctor}
	})
	assert.Len(t, fn.DeclaredMembers(nil), 1)
}
