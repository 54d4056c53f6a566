package probe

import (
	"reflect"
	"testing"
)

func TestVendorMeta(t *testing.T) {
	t.Parallel()

	headers := map[string]string{
		"X-Azion-Edge":  "pop-gru",
		"Azion-Rule":    "1010",
		"X-Cache":       "HIT",
		"Server":        "nginx",
		"Content-Type":  "text/html",
		"Cache-Control": "no-store",
	}

	got := VendorMeta(headers, nil)
	want := map[string]string{
		"X-Azion-Edge": "pop-gru",
		"Azion-Rule":   "1010",
		"X-Cache":      "HIT",
		"Server":       "nginx",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("VendorMeta() = %v, want %v", got, want)
	}
}

func TestVendorMeta_CustomPrefixes(t *testing.T) {
	t.Parallel()

	headers := map[string]string{
		"CF-Ray":   "abc123",
		"X-Cache":  "MISS",
		"X-Amz-Id": "xyz",
	}
	got := VendorMeta(headers, []string{"cf-", "x-amz"})
	if len(got) != 2 || got["CF-Ray"] != "abc123" || got["X-Amz-Id"] != "xyz" {
		t.Errorf("VendorMeta() = %v", got)
	}
}

func TestVendorMeta_Empty(t *testing.T) {
	t.Parallel()

	if got := VendorMeta(nil, nil); got != nil {
		t.Errorf("VendorMeta(nil) = %v, want nil", got)
	}
	if got := VendorMeta(map[string]string{"Content-Type": "text/html"}, nil); got != nil {
		t.Errorf("no matches should return nil, got %v", got)
	}
}
