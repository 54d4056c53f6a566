package probe

import "strings"

// DefaultMetaPrefixes select the vendor metadata echoed in the final report:
// edge cache and server identification headers.
var DefaultMetaPrefixes = []string{"x-azion", "azion", "x-cache", "server"}

// VendorMeta filters headers down to the entries whose lower-cased key starts
// with one of the prefixes. Values pass through verbatim; interpretation is
// the reader's job.
func VendorMeta(headers map[string]string, prefixes []string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	if len(prefixes) == 0 {
		prefixes = DefaultMetaPrefixes
	}

	out := make(map[string]string)
	for key, value := range headers {
		lower := strings.ToLower(key)
		for _, prefix := range prefixes {
			if strings.HasPrefix(lower, prefix) {
				out[key] = value
				break
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
