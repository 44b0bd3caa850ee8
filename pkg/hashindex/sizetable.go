package hashindex

// loadFactor is the build-time target load factor used to derive
// upperLimit from a bucket count. Must be in (0.5, 0.98].
const loadFactor = 0.93

// sizeTable is the fixed, monotonically increasing sequence of permissible
// num_buckets values. Capacity is never anything other than one of these 58
// entries.
//
// Values are near-prime. Growth is roughly 2x near the low end, decaying to
// roughly 1.1x near the high end, so doubling a multi-gigabyte table never
// happens.
var sizeTable = [...]uint64{
	1031, 2053, 3847, 6803, 11467, 18451,
	28591, 42821, 62233, 88117, 121993, 165617,
	221101, 290959, 378127, 486247, 619589, 783473,
	984059, 1229141, 1527931, 1891601, 2333759, 2870801,
	3522641, 4313381, 5272079, 6434093, 7842119, 9547799,
	11613733, 14115587, 17144957, 20812793, 25253213, 30628657,
	37135559, 45011831, 54545237, 66084059, 80049817, 96952589,
	117409627, 142167871, 172131419, 208394213, 252280117, 305391269,
	369666503, 447452003, 541587247, 655508261, 793373279, 960214399,
	1162121287, 1406463337, 1702158763, 2060000017,
}

// sizeTableFit returns the smallest sizeTable entry >= n. If n exceeds the
// largest entry, it returns the largest entry (the maximum-sized table
// never grows past it).
func sizeTableFit(n uint64) uint64 {
	for _, c := range sizeTable {
		if c >= n {
			return c
		}
	}

	return sizeTable[len(sizeTable)-1]
}

// sizeTableIndexOf returns the index of c within sizeTable, or -1 if c is
// not a member. Used by grow/shrink to step to the adjacent entry.
func sizeTableIndexOf(c uint64) int {
	for i, v := range sizeTable {
		if v == c {
			return i
		}
	}

	return -1
}

// sizeTableGrow returns the next sizeTable entry after fit(c), saturating
// at the largest entry.
func sizeTableGrow(c uint64) uint64 {
	i := sizeTableIndexOf(sizeTableFit(c))
	if i < 0 || i == len(sizeTable)-1 {
		return sizeTable[len(sizeTable)-1]
	}

	return sizeTable[i+1]
}

// sizeTableShrink returns the sizeTable entry before fit(c), saturating at
// the smallest entry.
func sizeTableShrink(c uint64) uint64 {
	i := sizeTableIndexOf(sizeTableFit(c))
	if i <= 0 {
		return sizeTable[0]
	}

	return sizeTable[i-1]
}

// limitsFor derives (lowerLimit, upperLimit) for a given bucket count. The
// minimum-sized table never shrinks and the maximum-sized table never
// grows.
func limitsFor(numBuckets uint64) (lower, upper uint64) {
	if numBuckets == sizeTable[0] {
		lower = 0
	} else {
		lower = numBuckets / 4
	}

	if numBuckets == sizeTable[len(sizeTable)-1] {
		upper = numBuckets
	} else {
		upper = uint64(float64(numBuckets) * loadFactor)
	}

	return lower, upper
}
