package resp

// Default protocol limits.
const (
	// DefaultMaxBulkLen matches Redis' proto-max-bulk-len.
	DefaultMaxBulkLen = 512 * 1024 * 1024

	DefaultMaxArrayLen = 1024 * 1024

	// DefaultMaxLineLen bounds simple strings, errors, integers and length
	// headers.
	DefaultMaxLineLen = 64 * 1024

	DefaultMaxDepth = 32
)

// Limits bounds the resources a single decoded unit may consume.
// A zero field means the corresponding default.
type Limits struct {
	MaxBulkLen  int
	MaxArrayLen int
	MaxLineLen  int
	MaxDepth    int
}

// DefaultLimits returns the default decode limits.
func DefaultLimits() Limits {
	return Limits{
		MaxBulkLen:  DefaultMaxBulkLen,
		MaxArrayLen: DefaultMaxArrayLen,
		MaxLineLen:  DefaultMaxLineLen,
		MaxDepth:    DefaultMaxDepth,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.MaxBulkLen <= 0 {
		l.MaxBulkLen = d.MaxBulkLen
	}
	if l.MaxArrayLen <= 0 {
		l.MaxArrayLen = d.MaxArrayLen
	}
	if l.MaxLineLen <= 0 {
		l.MaxLineLen = d.MaxLineLen
	}
	if l.MaxDepth <= 0 {
		l.MaxDepth = d.MaxDepth
	}
	return l
}
