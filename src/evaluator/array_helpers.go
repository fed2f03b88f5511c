package evaluator

import (
	"github.com/javanhut/Lox/src/object"
)

// getArrayFromObject extracts an array argument for a native, reporting
// which native and which position rejected it.
func getArrayFromObject(native string, position int, obj object.Object) (*object.Array, error) {
	array, ok := obj.(*object.Array)
	if !ok {
		return nil, newError(object.ArgumentTypeError, "%s expects an array as argument %d, got %s",
			native, position, obj.Type())
	}
	return array, nil
}

// combineArrays creates a new array holding the elements of left then right.
// Neither input is modified.
func combineArrays(left, right *object.Array) *object.Array {
	elements := make([]object.Object, len(left.Elements)+len(right.Elements))
	copy(elements, left.Elements)
	copy(elements[len(left.Elements):], right.Elements)
	return &object.Array{Elements: elements}
}

// popArray removes and returns the last element.
func popArray(array *object.Array) (object.Object, error) {
	n := len(array.Elements)
	if n == 0 {
		return nil, newError(object.IndexError, "pop from empty array")
	}
	last := array.Elements[n-1]
	array.Elements[n-1] = nil
	array.Elements = array.Elements[:n-1]
	return last, nil
}
