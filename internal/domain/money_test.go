package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriceCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "whole dollars", input: "20", want: 2000},
		{name: "dollars and cents", input: "12.50", want: 1250},
		{name: "single decimal place", input: "8.5", want: 850},
		{name: "zero", input: "0", want: 0},
		{name: "sub-cent precision rejected", input: "1.005", wantErr: true},
		{name: "negative rejected", input: "-3.00", wantErr: true},
		{name: "garbage rejected", input: "twelve", wantErr: true},
		{name: "empty rejected", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePriceCents(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, EINVALID, ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "20.00", FormatCents(2000))
	assert.Equal(t, "12.50", FormatCents(1250))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "0.00", FormatCents(0))
}
