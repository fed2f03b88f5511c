package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/javanhut/Lox/src/ast"
)

type ObjectType string

const (
	STRING_OBJ   = "STRING"
	NIL_OBJ      = "NIL"
	DECIMAL_OBJ  = "DECIMAL"
	INTEGER_OBJ  = "INTEGER"
	BOOLEAN_OBJ  = "BOOLEAN"
	ARRAY_OBJ    = "ARRAY"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
	CLASS_OBJ    = "CLASS"
	INSTANCE_OBJ = "INSTANCE"
)

// Object is a runtime value. Inspect is the default textual rendering used by
// print and string concatenation.
type Object interface {
	Type() ObjectType
	Inspect() string
}

var (
	NIL   = &Nil{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

type Nil struct{}

func (n *Nil) Type() ObjectType { return NIL_OBJ }
func (n *Nil) Inspect() string  { return "nil" }

type Decimal struct {
	Value float64
}

func (d *Decimal) Type() ObjectType { return DECIMAL_OBJ }
func (d *Decimal) Inspect() string  { return strconv.FormatFloat(d.Value, 'f', -1, 64) }

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// NativeBool returns the shared TRUE or FALSE object.
func NativeBool(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// Array has reference semantics: every holder sees in-place mutation.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }
func (a *Array) Inspect() string {
	return a.inspect(map[*Array]bool{})
}

// inspect renders an array already on the rendering path as [...] so that
// self-containing arrays terminate.
func (a *Array) inspect(seen map[*Array]bool) string {
	if seen[a] {
		return "[...]"
	}
	seen[a] = true
	defer delete(seen, a)

	elements := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		if nested, ok := el.(*Array); ok {
			elements[i] = nested.inspect(seen)
			continue
		}
		elements[i] = el.Inspect()
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// Callable is anything that can appear on the left of a call expression.
type Callable interface {
	Object
	// Arity is the exact argument count, or -1 for variadic builtins.
	Arity() int
	Call(exec Executor, args []Object) (Object, error)
	Name() string
}

// Executor runs a function body. The evaluator implements it; it is passed
// in so callables stay independent of the tree walker.
type Executor interface {
	ExecuteBlock(body *ast.Block, env *Environment) (Completion, error)
}

type Function struct {
	Declaration *ast.Function
	Closure     *Environment
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string  { return "<fn " + f.Name() + ">" }
func (f *Function) Name() string     { return f.Declaration.Name.Lexeme }
func (f *Function) Arity() int       { return len(f.Declaration.Params) }

// Call binds parameters in a fresh environment whose parent is the closure
// and runs the body. A Return completion is consumed here.
func (f *Function) Call(exec Executor, args []Object) (Object, error) {
	params := f.Declaration.Params
	if len(args) > len(params) {
		return nil, NewError(ArityError,
			fmt.Sprintf("expected %d arguments but got %d", len(params), len(args)))
	}

	env := NewEnclosedEnvironment(f.Closure)
	for i, param := range params {
		if i >= len(args) {
			return nil, NewError(MissingArgumentsError,
				fmt.Sprintf("missing arguments to function call: '%s' has no value", param.Lexeme),
				param.Span)
		}
		env.Define(param.Lexeme, args[i])
	}

	completion, err := exec.ExecuteBlock(f.Declaration.Body, env)
	if err != nil {
		return nil, err
	}
	if completion.Kind == Returned {
		return completion.Value, nil
	}
	return NIL, nil
}

// Bind returns a copy of the method whose closure defines `this`.
func (f *Function) Bind(instance *Instance) *Function {
	env := NewEnclosedEnvironment(f.Closure)
	env.Define("this", instance)
	return &Function{Declaration: f.Declaration, Closure: env}
}

type BuiltinFunction func(args ...Object) (Object, error)

// Builtin is a host-native function.
type Builtin struct {
	BuiltinName string
	Params      int // -1 for variadic
	Fn          BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "<native fn " + b.BuiltinName + ">" }
func (b *Builtin) Name() string     { return b.BuiltinName }
func (b *Builtin) Arity() int       { return b.Params }

func (b *Builtin) Call(_ Executor, args []Object) (Object, error) {
	if b.Params >= 0 && len(args) != b.Params {
		kind := ArityError
		if len(args) < b.Params {
			kind = MissingArgumentsError
		}
		return nil, NewError(kind,
			fmt.Sprintf("%s expects %d arguments but got %d", b.BuiltinName, b.Params, len(args)))
	}
	return b.Fn(args...)
}

// Class is immutable once constructed.
type Class struct {
	ClassName  string
	Methods    map[string]*Function
	Superclass *Class
}

func (c *Class) Type() ObjectType { return CLASS_OBJ }
func (c *Class) Inspect() string  { return "<class " + c.ClassName + ">" }
func (c *Class) Name() string     { return c.ClassName }

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// FindMethod searches the class, then each superclass.
func (c *Class) FindMethod(name string) *Function {
	for class := c; class != nil; class = class.Superclass {
		if method, ok := class.Methods[name]; ok {
			return method
		}
	}
	return nil
}

// Call allocates an instance and runs init against it. The result of init
// is discarded; the call always yields the instance.
func (c *Class) Call(exec Executor, args []Object) (Object, error) {
	instance := NewInstance(c)
	init := c.FindMethod("init")
	if init == nil {
		if len(args) > 0 {
			return nil, NewError(ArityError,
				fmt.Sprintf("expected 0 arguments but got %d", len(args)))
		}
		return instance, nil
	}
	if _, err := init.Bind(instance).Call(exec, args); err != nil {
		return nil, err
	}
	return instance, nil
}

type Instance struct {
	Class  *Class
	Fields map[string]Object
}

func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Object)}
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }
func (i *Instance) Inspect() string  { return "<" + i.Class.ClassName + " instance>" }

// Get looks up a field, then a method bound to the instance.
func (i *Instance) Get(name string) (Object, bool) {
	if value, ok := i.Fields[name]; ok {
		return value, true
	}
	if method := i.Class.FindMethod(name); method != nil {
		return method.Bind(i), true
	}
	return nil, false
}

// Set always writes a field, even when a method of that name exists.
func (i *Instance) Set(name string, value Object) {
	i.Fields[name] = value
}
