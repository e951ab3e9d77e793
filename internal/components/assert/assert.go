// Package assert contains guards for programmer errors, mostly used in constructors.
// Failing an assertion means the process was wired incorrectly, so it panics.
package assert

import (
	"fmt"
	"reflect"
)

// NotNil panics if value is nil, including typed nil pointers and funcs
// stored in an interface.
func NotNil(value any, name string) {
	if value == nil {
		panic(fmt.Sprintf("expected %s to be not nil", name))
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		if v.IsNil() {
			panic(fmt.Sprintf("expected %s to be not nil", name))
		}
	}
}

func NotEmptyStr(str string, name string) {
	if str == "" {
		panic(fmt.Sprintf("expected %s to be a non-empty string", name))
	}
}

func Positive(n int, name string) {
	if n <= 0 {
		panic(fmt.Sprintf("expected %s to be positive, got %d", name, n))
	}
}
