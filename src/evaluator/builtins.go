package evaluator

import (
	"time"
	"unicode/utf8"

	"github.com/javanhut/Lox/src/object"
)

var builtins = map[string]*object.Builtin{
	"clock": {
		BuiltinName: "clock",
		Params:      0,
		Fn: func(args ...object.Object) (object.Object, error) {
			return &object.Decimal{Value: float64(time.Now().UnixNano()) / float64(time.Second)}, nil
		},
	},
	"len": {
		BuiltinName: "len",
		Params:      1,
		Fn: func(args ...object.Object) (object.Object, error) {
			switch arg := args[0].(type) {
			case *object.String:
				return &object.Integer{Value: int64(utf8.RuneCountInString(arg.Value))}, nil
			case *object.Array:
				return &object.Integer{Value: int64(len(arg.Elements))}, nil
			}
			return nil, newError(object.ArgumentTypeError, "len: argument of type %s has no length", args[0].Type())
		},
	},
	"push": {
		BuiltinName: "push",
		Params:      2,
		Fn: func(args ...object.Object) (object.Object, error) {
			array, err := getArrayFromObject("push", 1, args[0])
			if err != nil {
				return nil, err
			}
			array.Elements = append(array.Elements, args[1])
			return array, nil
		},
	},
	"pop": {
		BuiltinName: "pop",
		Params:      1,
		Fn: func(args ...object.Object) (object.Object, error) {
			array, err := getArrayFromObject("pop", 1, args[0])
			if err != nil {
				return nil, err
			}
			return popArray(array)
		},
	},
	"concat": {
		BuiltinName: "concat",
		Params:      2,
		Fn: func(args ...object.Object) (object.Object, error) {
			left, err := getArrayFromObject("concat", 1, args[0])
			if err != nil {
				return nil, err
			}
			right, err := getArrayFromObject("concat", 2, args[1])
			if err != nil {
				return nil, err
			}
			return combineArrays(left, right), nil
		},
	},
	"str": {
		BuiltinName: "str",
		Params:      1,
		Fn: func(args ...object.Object) (object.Object, error) {
			return &object.String{Value: args[0].Inspect()}, nil
		},
	},
	"type": {
		BuiltinName: "type",
		Params:      1,
		Fn: func(args ...object.Object) (object.Object, error) {
			return &object.String{Value: string(args[0].Type())}, nil
		},
	},
}
