package sqlproc

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"integral decimal", decimal.RequireFromString("42"), int64(42)},
		{"negative integral decimal", decimal.RequireFromString("-7.000"), int64(-7)},
		{"non-decimal", "text", "text"},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := normalize(tt.in); got != tt.want {
				t.Errorf("normalize(%v) = %v (%T), want %v", tt.in, got, got, tt.want)
			}
		})
	}

	frac := decimal.RequireFromString("12.50")
	if got, ok := normalize(frac).(decimal.Decimal); !ok || !got.Equal(frac) {
		t.Errorf("normalize(12.50) = %v, want decimal 12.50", got)
	}
	huge := decimal.RequireFromString("123456789012345678901234567890")
	if _, ok := normalize(huge).(decimal.Decimal); !ok {
		t.Error("normalize(huge) did not keep the decimal")
	}
}

func TestShape(t *testing.T) {
	t.Parallel()

	rows := []map[string]any{{"n": 1}, {"n": 2}}

	if got, ok := shape(rows, map[string]bool{"single-column": true}).([]any); !ok || len(got) != 2 || got[1] != 2 {
		t.Errorf("single-column = %v", got)
	}
	if got := shape(rows, map[string]bool{"single-row": true, "single-column": true}); got != 1 {
		t.Errorf("single-row single-column = %v, want 1", got)
	}
	if got := shape(nil, map[string]bool{"single-row": true}); got != nil {
		t.Errorf("single-row on empty = %v, want nil", got)
	}
	if got, ok := shape(nil, nil).([]any); !ok || len(got) != 0 {
		t.Errorf("empty = %v, want empty slice", got)
	}
}
