package compute

import (
	"time"

	"github.com/winsoft666/node-addon-sample/domain/errors"
)

// Power returns n raised to exp by repeated int32 multiplication, sleeping
// step between multiplications to model a slow native computation. Like Add,
// the product wraps around on int32 overflow. n must be positive.
func Power(n int32, exp int, step time.Duration) (int64, error) {
	if n <= 0 {
		return 0, errors.NonPositiveN()
	}

	result := int32(1)
	for i := 0; i < exp; i++ {
		if step > 0 {
			time.Sleep(step)
		}
		result *= n
	}
	return int64(result), nil
}
