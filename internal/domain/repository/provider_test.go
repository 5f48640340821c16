package repository

import "testing"

func TestNormalizeProvider(t *testing.T) {
	cases := map[string]Provider{
		"":            ProviderCNN,
		"cnn":         ProviderCNN,
		"alternative": ProviderAlternative,
		"archive":     ProviderArchive,
		"bloomberg":   ProviderCNN,
	}
	for in, want := range cases {
		if got := NormalizeProvider(in); got != want {
			t.Fatalf("NormalizeProvider(%q)=%s want %s", in, got, want)
		}
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct{ in, want int }{
		{-3, DefaultLimit}, {0, DefaultLimit}, {1, 1}, {30, 30}, {2000, 2000}, {2001, MaxLimit},
	}
	for _, tc := range cases {
		if got := ClampLimit(tc.in); got != tc.want {
			t.Fatalf("ClampLimit(%d)=%d want %d", tc.in, got, tc.want)
		}
	}
}
