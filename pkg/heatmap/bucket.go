package heatmap

// Bucket is a commute-time severity class.
type Bucket int

const (
	BucketFree Bucket = iota
	BucketMild
	BucketCongested
	BucketHeavy
)

// NumBuckets is the number of severity classes.
const NumBuckets = 4

func (b Bucket) String() string {
	switch b {
	case BucketFree:
		return "free"
	case BucketMild:
		return "mild"
	case BucketCongested:
		return "congested"
	case BucketHeavy:
		return "heavy"
	default:
		return "unknown"
	}
}

// Classify maps minutes onto a bucket using half-open intervals:
// v < T0 is free, T0 <= v < T1 mild, T1 <= v < T2 congested, else heavy.
// NaN compares false against every threshold and lands in BucketHeavy.
func (c Config) Classify(v float64) Bucket {
	for i, t := range c.Thresholds {
		if v < t {
			return Bucket(i)
		}
	}
	return BucketHeavy
}

// ColorFor returns the fill color for v.
func (c Config) ColorFor(v float64) Color {
	return c.Colors[c.Classify(v)]
}
