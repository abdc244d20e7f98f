package assert

import "fmt"

// NotNil panics when value is nil, it is meant for constructor arguments that
// are wiring mistakes rather than runtime conditions.
func NotNil(value any, name string) {
	if value == nil {
		panic(fmt.Sprintf("expected %s to be not nil", name))
	}
}

func Positive(n int, name string) {
	if n <= 0 {
		panic(fmt.Sprintf("expected %s to be positive, got %d", name, n))
	}
}
