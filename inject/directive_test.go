package inject_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oss-evaluation-repository/unitycontainer-abstractions/inject"
	"github.com/oss-evaluation-repository/unitycontainer-abstractions/member"
	"github.com/oss-evaluation-repository/unitycontainer-abstractions/typematch"
)

type Logger struct{}

type List[T any] struct {
	items []T
}

type Inner struct {
	Value int
}

type Other struct {
	Value string
}

type TwoValues struct {
	Inner
	Other
}

type Service struct {
	Name   string
	Port   int
	Logger *Logger
	Tags   List[string]
	secret string
}

func NewServiceWithPort(port int) *Service { return &Service{Port: port} }

func NewServiceWithName(name string) *Service { return &Service{Name: name} }

func NewServiceWithTags(tags List[int]) *Service { return &Service{} }

func (s *Service) Init(name string) {}

func (s *Service) Configure(port int, tags []string) {}

var serviceType = reflect.TypeOf(&Service{})

func serviceConstructors() *member.ConstructorTable {
	return member.NewConstructorTable().MustAdd(NewServiceWithPort, NewServiceWithName)
}

func TestNameOnlyResolvesUniqueMember(t *testing.T) {
	d := inject.NewProperty("Name")

	_, ok := d.Member()
	require.False(t, ok)

	prop, err := d.Resolve(serviceType)
	require.NoError(t, err)
	assert.Equal(t, "Name", prop.MemberName())
	assert.Equal(t, reflect.TypeOf(""), prop.Type())

	resolved, ok := d.Member()
	require.True(t, ok)
	assert.True(t, member.Equal(prop, resolved))
}

func TestNameOnlyNoMatch(t *testing.T) {
	d := inject.NewProperty("Missing")

	_, err := d.Resolve(serviceType)
	require.Error(t, err)
	assert.True(t, errors.Is(err, inject.ErrNoMatchingMember))
	assert.False(t, errors.Is(err, inject.ErrAmbiguousMember))

	var cfgErr *inject.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, inject.NoMatchingMember, cfgErr.Kind)
	assert.Equal(t, serviceType, cfgErr.Type)
	assert.Equal(t, "Missing", cfgErr.Signature)
	assert.Equal(t, "Missing", cfgErr.Member)

	_, ok := d.Member()
	assert.False(t, ok)
}

func TestUnexportedFieldIsNotAProperty(t *testing.T) {
	_, err := inject.NewProperty("secret").Resolve(serviceType)
	assert.ErrorIs(t, err, inject.ErrNoMatchingMember)

	field, err := inject.NewField("secret").Resolve(serviceType)
	require.NoError(t, err)
	assert.False(t, field.Exported())
}

func TestTwoPropertiesWithSameNameAreAmbiguous(t *testing.T) {
	d := inject.NewProperty("Value")

	_, err := d.Resolve(reflect.TypeOf(TwoValues{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, inject.ErrAmbiguousMember)

	var cfgErr *inject.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"Value int", "Value string"}, cfgErr.Conflicts)
	assert.Equal(t, "Value", cfgErr.Member)
	assert.Contains(t, err.Error(), "TwoValues")

	_, ok := d.Member()
	assert.False(t, ok)
}

func TestTypedPropertyDisambiguates(t *testing.T) {
	prop, err := inject.NewPropertyValue("Value", "text").Resolve(reflect.TypeOf(TwoValues{}))
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(""), prop.Type())

	prop, err = inject.NewPropertyValue("Value", reflect.TypeOf(0)).Resolve(reflect.TypeOf(TwoValues{}))
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(0), prop.Type())

	_, err = inject.NewPropertyValue("Value", 1.5).Resolve(reflect.TypeOf(TwoValues{}))
	assert.ErrorIs(t, err, inject.ErrNoMatchingMember)
}

func TestFirstDuplicateWins(t *testing.T) {
	a := member.NewField(serviceType, reflect.StructField{Name: "X", Type: reflect.TypeOf(0), Index: []int{0}})
	b := member.NewField(serviceType, reflect.StructField{Name: "X", Type: reflect.TypeOf(""), Index: []int{1}})
	c := member.NewField(serviceType, reflect.StructField{Name: "X", Type: reflect.TypeOf(false), Index: []int{2}})

	d := inject.NewMemberDirective[member.Field, typematch.Arg](
		"X", inject.NameOnly[typematch.Arg](), member.Static[member.Field]{a, b, c}, nil)

	_, err := d.Resolve(serviceType)
	var cfgErr *inject.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{a.String(), b.String()}, cfgErr.Conflicts)
}

func TestConstructorSelectedByArgumentTypes(t *testing.T) {
	d := inject.NewConstructor(serviceConstructors(), reflect.TypeOf(""))

	ctor, err := d.Resolve(serviceType)
	require.NoError(t, err)
	assert.Equal(t, []reflect.Type{reflect.TypeOf("")}, ctor.ParameterTypes())
	assert.Equal(t, reflect.ValueOf(NewServiceWithName).Pointer(), ctor.Func().Pointer())
}

func TestConstructorSelectedByLiteral(t *testing.T) {
	ctor, err := inject.NewConstructor(serviceConstructors(), 8080).Resolve(serviceType)
	require.NoError(t, err)
	assert.Equal(t, []reflect.Type{reflect.TypeOf(0)}, ctor.ParameterTypes())
}

func TestConstructorNilLiteralIsAmbiguous(t *testing.T) {
	_, err := inject.NewConstructor(serviceConstructors(), nil).Resolve(serviceType)
	assert.ErrorIs(t, err, inject.ErrAmbiguousMember)
	assert.Contains(t, err.Error(), "New(nil)")
}

func TestConstructorArityMismatch(t *testing.T) {
	_, err := inject.NewConstructor(serviceConstructors()).Resolve(serviceType)
	require.ErrorIs(t, err, inject.ErrNoMatchingMember)
	assert.Contains(t, err.Error(), "New()")
}

func TestConstructorOpenGenericArgument(t *testing.T) {
	table := member.NewConstructorTable().MustAdd(NewServiceWithTags, NewServiceWithName)

	ctor, err := inject.NewConstructor(table, reflect.TypeOf(List[string]{})).Resolve(serviceType)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(List[int]{}), ctor.ParameterTypes()[0])
}

func TestMethodSelection(t *testing.T) {
	m, err := inject.NewMethod("Configure", 80, typematch.AnyArray).Resolve(serviceType)
	require.NoError(t, err)
	assert.Equal(t, "Configure", m.MemberName())

	_, err = inject.NewMethod("Configure", 80).Resolve(serviceType)
	assert.ErrorIs(t, err, inject.ErrNoMatchingMember)

	_, err = inject.NewMethod("Init", 80).Resolve(serviceType)
	assert.ErrorIs(t, err, inject.ErrNoMatchingMember)
}

func TestOverloadedMethodFixture(t *testing.T) {
	byInt := member.NewMethod(serviceType, reflect.Method{Name: "Set", Type: reflect.TypeOf(func(*Service, int) {})})
	byString := member.NewMethod(serviceType, reflect.Method{Name: "Set", Type: reflect.TypeOf(func(*Service, string) {})})
	provider := member.Static[member.Method]{byInt, byString}

	typed := inject.NewMemberDirective[member.Method, []typematch.Arg](
		"Set",
		inject.WithData(typematch.ArgsOf(reflect.TypeOf(""))),
		provider,
		inject.SignatureMatcher[member.Method]{},
	)
	m, err := typed.Resolve(serviceType)
	require.NoError(t, err)
	assert.True(t, member.Equal(byString, m))

	nameOnly := inject.NewMemberDirective[member.Method, []typematch.Arg](
		"Set", inject.NameOnly[[]typematch.Arg](), provider, nil)
	_, err = nameOnly.Resolve(serviceType)
	assert.ErrorIs(t, err, inject.ErrAmbiguousMember)
}

func TestDefaultMatcherComparesNameOnly(t *testing.T) {
	f := member.Fields{}.DeclaredMembers(serviceType)
	d := inject.NewMemberDirective[member.Field, typematch.Arg](
		"Port", inject.WithData(typematch.Literal("ignored")), member.Static[member.Field](f), nil)

	field, err := d.Resolve(serviceType)
	require.NoError(t, err)
	assert.Equal(t, "Port", field.MemberName())
}

func TestProviderQueriedOnEveryAttempt(t *testing.T) {
	calls := 0
	provider := member.ProviderFunc[member.Property](func(target reflect.Type) []member.Property {
		calls++
		if calls == 1 {
			return nil
		}
		return member.Properties{}.DeclaredMembers(target)
	})
	d := inject.NewMemberDirective[member.Property, typematch.Arg]("Name", inject.NameOnly[typematch.Arg](), provider, nil)

	_, err := d.Resolve(serviceType)
	require.ErrorIs(t, err, inject.ErrNoMatchingMember)

	_, err = d.Resolve(serviceType)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	// 已解析后不再扫描
	_, err = d.Resolve(serviceType)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestResolvedMemberNeverChanges(t *testing.T) {
	d := inject.NewConstructor(serviceConstructors(), reflect.TypeOf(""))
	first, err := d.Resolve(serviceType)
	require.NoError(t, err)

	// 对另一个类型再次解析也只做校验，不重新选择
	second, err := d.Resolve(reflect.TypeOf(TwoValues{}))
	require.NoError(t, err)
	assert.True(t, member.Equal(first, second))
}

func TestEquality(t *testing.T) {
	props := member.Properties{}.DeclaredMembers(serviceType)
	name, port := props[0], props[1]

	d := inject.NewProperty("Name")
	assert.False(t, d.Equal(name), "unresolved directive never equals a member")
	assert.True(t, d.Equal(d.MemberDirective))

	_, err := d.Resolve(serviceType)
	require.NoError(t, err)

	assert.True(t, d.Equal(name))
	assert.False(t, d.Equal(port))
	assert.False(t, d.Equal("Name"))

	other := inject.NewProperty("Name")
	assert.False(t, d.Equal(other.MemberDirective))
	_, err = other.Resolve(serviceType)
	require.NoError(t, err)
	assert.True(t, d.Equal(other.MemberDirective))
	assert.Equal(t, d.Hash(), other.Hash())

	third := inject.NewProperty("Port")
	_, err = third.Resolve(serviceType)
	require.NoError(t, err)
	assert.False(t, d.Equal(third.MemberDirective))
	assert.NotEqual(t, d.Hash(), third.Hash())
}

func TestHashFallbackWhenUnresolved(t *testing.T) {
	a := inject.NewProperty("Name")
	b := inject.NewMethod("Init", "x")
	assert.Equal(t, a.Hash(), b.Hash())
	assert.Contains(t, a.String(), "unresolved")
}

func TestOnce(t *testing.T) {
	props := member.Properties{}.DeclaredMembers(serviceType)

	var cell inject.Once[member.Property]
	_, ok := cell.Get()
	assert.False(t, ok)

	require.NoError(t, cell.Set(props[0]))
	require.NoError(t, cell.Set(props[0]))
	assert.ErrorIs(t, cell.Set(props[1]), inject.ErrAlreadyResolved)

	got, ok := cell.Get()
	require.True(t, ok)
	assert.True(t, member.Equal(props[0], got))
}

func TestSelector(t *testing.T) {
	s := inject.NameOnly[int]()
	assert.True(t, s.IsNameOnly())
	_, ok := s.Data()
	assert.False(t, ok)

	// 零值数据也是"有数据"
	s = inject.WithData(0)
	assert.False(t, s.IsNameOnly())
	v, ok := s.Data()
	assert.True(t, ok)
	assert.Equal(t, 0, v)
}

func TestCustomMatcher(t *testing.T) {
	byTag := inject.MatcherFunc[member.Field, string](func(candidate member.Field, name string, tag string) bool {
		return candidate.MemberName() == name && candidate.Tag().Get("inject") == tag
	})

	type Tagged struct {
		Inner `inject:"outer"`
		Other
	}
	target := reflect.TypeOf(Tagged{})

	d := inject.NewMemberDirective[member.Field, string](
		"Inner", inject.WithData("outer"), member.Provider[member.Field](member.Fields{}), byTag)
	field, err := d.Resolve(target)
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeOf(Inner{}), field.Type())
	assert.Equal(t, `Inner outer`, d.Signature())

	_, err = inject.NewMemberDirective[member.Field, string](
		"Other", inject.WithData("outer"), member.Provider[member.Field](member.Fields{}), byTag).Resolve(target)
	assert.ErrorIs(t, err, inject.ErrNoMatchingMember)
}

type Core struct {
	Value int
}

type LeftCore struct {
	Core
}

type RightCore struct {
	Core
}

type Diamond struct {
	LeftCore
	RightCore
}

func TestSharedEmbeddedTypeIsAmbiguous(t *testing.T) {
	target := reflect.TypeOf(Diamond{})

	_, err := inject.NewProperty("Value").Resolve(target)
	require.ErrorIs(t, err, inject.ErrAmbiguousMember)

	var cfgErr *inject.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"Value int", "Value int"}, cfgErr.Conflicts)

	_, err = inject.NewField("Core").Resolve(target)
	assert.ErrorIs(t, err, inject.ErrAmbiguousMember)
}

func TestClosureConstructorsStayDistinct(t *testing.T) {
	named := func(name string) func(string) *Service {
		return func(string) *Service { return &Service{Name: name} }
	}
	table := member.NewConstructorTable().MustAdd(named("a"), named("b"))

	_, err := inject.NewConstructor(table, "x").Resolve(serviceType)
	assert.ErrorIs(t, err, inject.ErrAmbiguousMember)

	ctors := table.DeclaredMembers(serviceType)
	var cell inject.Once[member.Constructor]
	require.NoError(t, cell.Set(ctors[0]))
	assert.ErrorIs(t, cell.Set(ctors[1]), inject.ErrAlreadyResolved)
}
