package motion

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"
)

// GPIOSensor reads a PIR sensor wired to a GPIO line exported through
// sysfs, e.g. /sys/class/gpio/gpio17/value.
type GPIOSensor struct {
	fileSys   afero.Fs
	valuePath string
	activeLow bool
}

type GPIOConfig struct {
	FileSys   afero.Fs
	ValuePath string
	// ActiveLow inverts the reading for sensors that pull the line low on
	// detection.
	ActiveLow bool
}

func NewGPIOSensor(cfg *GPIOConfig) (*GPIOSensor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	if cfg.ValuePath == "" {
		return nil, fmt.Errorf("gpio value path is empty")
	}

	return &GPIOSensor{
		fileSys:   cfg.FileSys,
		valuePath: cfg.ValuePath,
		activeLow: cfg.ActiveLow,
	}, nil
}

func (g *GPIOSensor) Detect(_ context.Context) (bool, error) {
	raw, err := afero.ReadFile(g.fileSys, g.valuePath)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", g.valuePath, err)
	}

	var high bool

	switch strings.TrimSpace(string(raw)) {
	case "1":
		high = true
	case "0":
		high = false
	default:
		return false, fmt.Errorf("unexpected gpio value %q in %s", strings.TrimSpace(string(raw)), g.valuePath)
	}

	return high != g.activeLow, nil
}

// NoSensor never detects anything. It is used when the device has no
// motion sensor fitted.
type NoSensor struct{}

func (NoSensor) Detect(context.Context) (bool, error) {
	return false, nil
}
