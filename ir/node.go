package ir

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"shape-mapper/internal/shape"
)

// Node is an IR expression node.
type Node interface {
	Kind() Kind
	Type() reflect.Type
	String() string
}

// Parameter is a lambda parameter. Parameters are compared by identity.
type Parameter struct {
	Name string
	typ  reflect.Type
}

func (p *Parameter) Kind() Kind         { return KindParameter }
func (p *Parameter) Type() reflect.Type { return p.typ }
func (p *Parameter) String() string     { return p.Name }

// Member reads a struct field from Object. Object may be a struct or a
// pointer to a struct.
type Member struct {
	Object Node
	Name   string
	Index  []int
	typ    reflect.Type
}

func (m *Member) Kind() Kind         { return KindMember }
func (m *Member) Type() reflect.Type { return m.typ }
func (m *Member) String() string     { return m.Object.String() + "." + m.Name }

// Owner returns the struct type that declares the member.
func (m *Member) Owner() reflect.Type {
	t := m.Object.Type()
	if t.Kind() == reflect.Ptr {
		return t.Elem()
	}

	return t
}

// Conditional evaluates Then when Test holds and Else otherwise.
type Conditional struct {
	Test Node
	Then Node
	Else Node
}

func (c *Conditional) Kind() Kind         { return KindConditional }
func (c *Conditional) Type() reflect.Type { return c.Then.Type() }
func (c *Conditional) String() string {
	return "(" + c.Test.String() + " ? " + c.Then.String() + " : " + c.Else.String() + ")"
}

// Constant is a literal value.
type Constant struct {
	value reflect.Value
}

func (c *Constant) Kind() Kind         { return KindConstant }
func (c *Constant) Type() reflect.Type { return c.value.Type() }

// Value returns the constant as an interface value.
func (c *Constant) Value() any {
	if !c.value.IsValid() || !c.value.CanInterface() {
		return nil
	}

	return c.value.Interface()
}

// IsZero reports whether the constant is the zero value of its type.
func (c *Constant) IsZero() bool {
	return c.value.IsZero()
}

func (c *Constant) String() string {
	if c.value.IsZero() && shape.Nilable(c.value.Type()) {
		return "nil"
	}

	switch c.value.Kind() {
	case reflect.String:
		return fmt.Sprintf("%q", c.value.String())
	case reflect.Struct, reflect.Slice, reflect.Array, reflect.Map, reflect.Ptr:
		return strings.TrimSpace(spew.Sprintf("%v", c.Value()))
	default:
		return fmt.Sprint(c.Value())
	}
}

// MemberInit assigns Value to a field of a constructed struct.
type MemberInit struct {
	Field string
	Index []int
	Value Node
}

// Construct builds a new struct value from member initializers.
type Construct struct {
	Bindings []MemberInit
	typ      reflect.Type
}

func (c *Construct) Kind() Kind         { return KindConstruct }
func (c *Construct) Type() reflect.Type { return c.typ }
func (c *Construct) String() string {
	parts := make([]string, 0, len(c.Bindings))
	for _, b := range c.Bindings {
		parts = append(parts, b.Field+": "+b.Value.String())
	}

	return typeName(c.typ) + "{" + strings.Join(parts, ", ") + "}"
}

// ConvertMode describes how Convert changes the operand type.
type ConvertMode int

const (
	ConvertValue ConvertMode = iota // reflect conversion between value types
	ConvertWrap                     // T -> *T
	ConvertUnwrap                   // *T -> T
)

// Convert changes the type of Operand.
type Convert struct {
	Operand Node
	Mode    ConvertMode
	typ     reflect.Type
}

func (c *Convert) Kind() Kind         { return KindConvert }
func (c *Convert) Type() reflect.Type { return c.typ }
func (c *Convert) String() string {
	switch c.Mode {
	case ConvertWrap:
		return "&" + c.Operand.String()
	case ConvertUnwrap:
		return "*" + c.Operand.String()
	default:
		return typeName(c.typ) + "(" + c.Operand.String() + ")"
	}
}

// Binary applies a comparison or logical operator.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
}

func (b *Binary) Kind() Kind         { return KindBinary }
func (b *Binary) Type() reflect.Type { return boolType }
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

// Not negates a boolean operand.
type Not struct {
	Operand Node
}

func (n *Not) Kind() Kind         { return KindNot }
func (n *Not) Type() reflect.Type { return boolType }
func (n *Not) String() string     { return "!" + n.Operand.String() }

// Invocable is a mapping that can be applied by an Invoke node. Providers may
// expand it through Lambda; the compiler prefers Compiled when implemented.
type Invocable interface {
	InputType() reflect.Type
	OutputType() reflect.Type
	Lambda() (*Lambda, error)
	String() string
}

// CompiledInvocable is implemented by invocables that memoize their compiled
// form.
type CompiledInvocable interface {
	Invocable
	Compiled() (Func, error)
}

// Invoke applies a sub-mapping to Arg. A nil pointer argument yields the zero
// value of the node type.
type Invoke struct {
	Target Invocable
	Arg    Node
	typ    reflect.Type
}

func (i *Invoke) Kind() Kind         { return KindInvoke }
func (i *Invoke) Type() reflect.Type { return i.typ }
func (i *Invoke) String() string {
	return "map<" + i.Target.String() + ">(" + i.Arg.String() + ")"
}

// MapElements maps every element of a slice or array through Elem,
// preserving length and order.
type MapElements struct {
	Source Node
	Elem   *Lambda
	typ    reflect.Type
}

func (m *MapElements) Kind() Kind         { return KindMapElements }
func (m *MapElements) Type() reflect.Type { return m.typ }
func (m *MapElements) String() string {
	return m.Source.String() + ".Select(" + m.Elem.String() + ")"
}

// CallFunc is the signature of functions invoked by a Call node.
type CallFunc func(arg reflect.Value) (reflect.Value, error)

// Call applies an opaque Go function. Query providers usually cannot
// translate it.
type Call struct {
	Name string
	Fn   CallFunc
	Arg  Node
	typ  reflect.Type
}

func (c *Call) Kind() Kind         { return KindCall }
func (c *Call) Type() reflect.Type { return c.typ }
func (c *Call) String() string     { return c.Name + "(" + c.Arg.String() + ")" }

// Lambda is a single-parameter function expression.
type Lambda struct {
	Param *Parameter
	Body  Node
}

// Type returns the result type of the body.
func (l *Lambda) Type() reflect.Type { return l.Body.Type() }

func (l *Lambda) String() string {
	return l.Param.String() + " => " + l.Body.String()
}

var boolType = reflect.TypeOf(false)

func typeName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}
