package motion

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const valuePath = "/sys/class/gpio/gpio17/value"

func TestGPIOSensor_Detect(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		activeLow bool
		want      bool
		wantErr   bool
	}{
		{name: "high", value: "1\n", want: true},
		{name: "low", value: "0\n", want: false},
		{name: "active low, pulled low", value: "0", activeLow: true, want: true},
		{name: "active low, idle high", value: "1", activeLow: true, want: false},
		{name: "garbage", value: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, valuePath, []byte(tt.value), 0o644))

			sensor, err := NewGPIOSensor(&GPIOConfig{FileSys: fs, ValuePath: valuePath, ActiveLow: tt.activeLow})
			require.NoError(t, err)

			got, err := sensor.Detect(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestGPIOSensor_MissingFile(t *testing.T) {
	sensor, err := NewGPIOSensor(&GPIOConfig{FileSys: afero.NewMemMapFs(), ValuePath: valuePath})
	require.NoError(t, err)

	_, err = sensor.Detect(context.Background())
	require.Error(t, err)
}

func TestNewGPIOSensor_Validation(t *testing.T) {
	_, err := NewGPIOSensor(nil)
	require.Error(t, err)

	_, err = NewGPIOSensor(&GPIOConfig{ValuePath: valuePath})
	require.Error(t, err)

	_, err = NewGPIOSensor(&GPIOConfig{FileSys: afero.NewMemMapFs()})
	require.Error(t, err)
}

func TestNoSensor(t *testing.T) {
	detected, err := NoSensor{}.Detect(context.Background())
	require.NoError(t, err)
	require.False(t, detected)
}
