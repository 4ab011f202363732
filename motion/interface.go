package motion

import "context"

// Sensor reports whether someone is approaching the device.
type Sensor interface {
	Detect(ctx context.Context) (bool, error)
}
