package mathutil

import "testing"

func TestFloorDivMod(t *testing.T) {
	tests := []struct {
		a, b     int
		div, mod int
	}{
		{a: 0, b: 64, div: 0, mod: 0},
		{a: 63, b: 64, div: 0, mod: 63},
		{a: 64, b: 64, div: 1, mod: 0},
		{a: -1, b: 64, div: -1, mod: 63},
		{a: -64, b: 64, div: -1, mod: 0},
		{a: -65, b: 64, div: -2, mod: 63},
	}

	for _, tt := range tests {
		if got := FloorDiv(tt.a, tt.b); got != tt.div {
			t.Errorf("FloorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.div)
		}
		if got := FloorMod(tt.a, tt.b); got != tt.mod {
			t.Errorf("FloorMod(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.mod)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := ClampInt(12, 0, 10); got != 10 {
		t.Errorf("ClampInt high = %d", got)
	}
	if got := ClampInt(-3, 0, 10); got != 0 {
		t.Errorf("ClampInt low = %d", got)
	}
	if got := ClampFloat(0.5, 0, 1); got != 0.5 {
		t.Errorf("ClampFloat mid = %f", got)
	}
}
