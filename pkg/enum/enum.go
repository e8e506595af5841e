package enum

import (
	"fmt"
	"reflect"
)

var enumManager = map[string]any{}

type enum[T comparable] struct {
	toEnum map[string]T
	values []T
}

// New registers value as a member of its enum type and returns it unchanged.
// It must only be called at package initialization.
func New[T comparable](value T) T {
	v := reflect.ValueOf(value)
	name := v.Type().String()
	if _, ok := enumManager[name]; !ok {
		enumManager[name] = &enum[T]{toEnum: make(map[string]T)}
	}

	e := enumManager[name].(*enum[T])
	e.toEnum[fmt.Sprint(value)] = value
	e.values = append(e.values, value)
	return value
}

func ToEnum[T comparable](s string) (T, error) {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).String()]
	if !ok {
		return defaultT, fmt.Errorf("not found enum type %T", defaultT)
	}

	t, ok := e.(*enum[T]).toEnum[s]
	if !ok {
		return defaultT, fmt.Errorf("not found value %s in enum %T", s, defaultT)
	}

	return t, nil
}

// Values returns all registered members of T in registration order.
func Values[T comparable]() []T {
	var defaultT T
	e, ok := enumManager[reflect.TypeOf(defaultT).String()]
	if !ok {
		return nil
	}

	result := make([]T, len(e.(*enum[T]).values))
	copy(result, e.(*enum[T]).values)
	return result
}
