package hashindex

import "testing"

func TestSizeTableFit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    uint64
		want uint64
	}{
		{0, 1031},
		{1, 1031},
		{1031, 1031},
		{1032, 2053},
		{2053, 2053},
		{2060000018, sizeTable[len(sizeTable)-1]},
	}

	for _, tt := range tests {
		got := sizeTableFit(tt.n)
		if got != tt.want {
			t.Errorf("sizeTableFit(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestSizeTableGrowShrinkSaturate(t *testing.T) {
	t.Parallel()

	last := sizeTable[len(sizeTable)-1]
	first := sizeTable[0]

	if got := sizeTableGrow(last); got != last {
		t.Errorf("sizeTableGrow(last) = %d, want %d (saturate)", got, last)
	}

	if got := sizeTableShrink(first); got != first {
		t.Errorf("sizeTableShrink(first) = %d, want %d (saturate)", got, first)
	}

	if got := sizeTableGrow(1031); got != 2053 {
		t.Errorf("sizeTableGrow(1031) = %d, want 2053", got)
	}

	if got := sizeTableShrink(2053); got != 1031 {
		t.Errorf("sizeTableShrink(2053) = %d, want 1031", got)
	}
}

func TestSizeTableIsMonotonicallyIncreasing(t *testing.T) {
	t.Parallel()

	for i := 1; i < len(sizeTable); i++ {
		if sizeTable[i] <= sizeTable[i-1] {
			t.Fatalf("sizeTable[%d]=%d not greater than sizeTable[%d]=%d", i, sizeTable[i], i-1, sizeTable[i-1])
		}
	}

	if len(sizeTable) != 58 {
		t.Fatalf("len(sizeTable) = %d, want 58", len(sizeTable))
	}
}

func TestLimitsForKnownCapacities(t *testing.T) {
	t.Parallel()

	lower, upper := limitsFor(1031)
	if lower != 0 {
		t.Errorf("lowerLimit(1031) = %d, want 0 (minimum-sized table)", lower)
	}

	if upper != 958 {
		t.Errorf("upperLimit(1031) = %d, want 958", upper)
	}

	lower, upper = limitsFor(2053)
	if lower != 513 {
		t.Errorf("lowerLimit(2053) = %d, want 513", lower)
	}

	if upper != 1909 {
		t.Errorf("upperLimit(2053) = %d, want 1909", upper)
	}
}

func TestLimitsForLargestEntryNeverGrows(t *testing.T) {
	t.Parallel()

	last := sizeTable[len(sizeTable)-1]

	_, upper := limitsFor(last)
	if upper != last {
		t.Errorf("upperLimit(largest) = %d, want %d", upper, last)
	}
}
