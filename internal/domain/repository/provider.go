package repository

// Provider names an upstream sentiment feed.
type Provider string

const (
	ProviderCNN         Provider = "cnn"
	ProviderAlternative Provider = "alternative"
	ProviderArchive     Provider = "archive"
)

// Bounds for the number of observations requested from a provider.
const (
	MinLimit     = 1
	MaxLimit     = 2000
	DefaultLimit = 30
)

// IsValidProvider returns true if p is a supported provider.
func IsValidProvider(p Provider) bool {
	switch p {
	case ProviderCNN, ProviderAlternative, ProviderArchive:
		return true
	default:
		return false
	}
}

// DefaultProvider returns the default provider.
func DefaultProvider() Provider { return ProviderCNN }

// NormalizeProvider converts raw string to a valid provider (or default).
func NormalizeProvider(s string) Provider {
	if s == "" {
		return DefaultProvider()
	}
	p := Provider(s)
	if IsValidProvider(p) {
		return p
	}
	return DefaultProvider()
}

// ClampLimit maps a requested limit into [MinLimit, MaxLimit]; zero or
// negative requests fall back to DefaultLimit.
func ClampLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultLimit
	case n > MaxLimit:
		return MaxLimit
	default:
		return n
	}
}
