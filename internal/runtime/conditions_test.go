package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/renfebot/internal/runtime"
	"github.com/stretchr/testify/assert"
)

func TestDefaultEvaluator(t *testing.T) {
	data := map[string]any{
		"return":    true,
		"filter":    false,
		"max_price": 0.0,
		"origin":    "MADRID",
	}

	tests := []struct {
		cond    string
		input   string
		want    bool
		wantErr bool
	}{
		{cond: "input == 'yes'", input: "YES", want: true},
		{cond: "input == \"yes\"", input: "no", want: false},
		{cond: "input != 'yes'", input: "no", want: true},
		{cond: "return", want: true},
		{cond: "!return", want: false},
		{cond: "filter", want: false},
		{cond: "!filter", want: true},
		{cond: "max_price", want: false},
		{cond: "origin", want: true},
		{cond: "missing", want: false},
		{cond: "!missing", want: true},
		{cond: "a > b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.cond, func(t *testing.T) {
			got, err := runtime.DefaultEvaluator(context.Background(), tt.cond, tt.input, data)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
