package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCPULine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    CPUTicks
		wantErr bool
	}{
		{
			name: "modern kernel with ten fields",
			line: "cpu  1234567 12345 234567 8901234 12345 0 6789 0 0 0",
			want: CPUTicks{User: 1234567, Nice: 12345, System: 234567, Idle: 8901234},
		},
		{
			name: "old kernel with exactly four fields",
			line: "cpu 100 0 50 850",
			want: CPUTicks{User: 100, Nice: 0, System: 50, Idle: 850},
		},
		{
			name: "leading whitespace and tabs",
			line: "  cpu\t10\t20\t30\t40",
			want: CPUTicks{User: 10, Nice: 20, System: 30, Idle: 40},
		},
		{
			name: "extra trailing field is not numeric",
			line: "cpu 1 2 3 4 extra",
			want: CPUTicks{User: 1, Nice: 2, System: 3, Idle: 4},
		},
		{
			name:    "three numeric fields",
			line:    "cpu 1 2 3",
			wantErr: true,
		},
		{
			name:    "label only",
			line:    "cpu",
			wantErr: true,
		},
		{
			name:    "empty",
			line:    "",
			wantErr: true,
		},
		{
			name:    "non numeric",
			line:    "cpu  invalid data here now",
			wantErr: true,
		},
		{
			name:    "remote shell error text",
			line:    "rsh: node09: Connection refused",
			wantErr: true,
		},
		{
			name:    "negative value",
			line:    "cpu -1 0 0 0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCPULine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrNoData)
				assert.Equal(t, CPUTicks{}, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCPUTicks_BusyTotal(t *testing.T) {
	c := CPUTicks{User: 110, Nice: 0, System: 60, Idle: 870}
	assert.Equal(t, uint64(170), c.Busy())
	assert.Equal(t, uint64(1040), c.Total())
}
