package oneshot

import (
	"fmt"

	"github.com/gostdlib/primitives/prim/internal/drop"
	"github.com/johnsiilver/calloptions"
)

type cellOptions[T any] struct {
	drop drop.Func[T]
}

// Option is an option for New() and NewCell().
type Option interface {
	oneshot()
}

// WithDrop sets the function that destroys a message that was sent but never
// received. It takes precedence over the message's own Drop() method. T must match
// the Cell's type. This can be used as a:
// - Option
func WithDrop[T any](f func(v T)) interface {
	Option
	calloptions.CallOption
} {
	return struct {
		Option
		calloptions.CallOption
	}{
		CallOption: calloptions.New(
			func(a any) error {
				switch t := a.(type) {
				case *cellOptions[T]:
					if f == nil {
						return fmt.Errorf("WithDrop() cannot be passed a nil func")
					}
					t.drop = f
					return nil
				}
				return fmt.Errorf("WithDrop(func(%T)) does not match the Cell type", *new(T))
			},
		),
	}
}
