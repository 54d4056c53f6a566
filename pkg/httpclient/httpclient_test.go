package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNew_ZeroConfigDefaults(t *testing.T) {
	t.Parallel()

	client := New(Config{})
	if client.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %v, want 30s", client.Timeout)
	}

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatalf("Transport is %T, want *http.Transport", client.Transport)
	}
	if transport.MaxIdleConns != 100 {
		t.Errorf("MaxIdleConns = %d, want 100", transport.MaxIdleConns)
	}
	if transport.MaxConnsPerHost != 25 {
		t.Errorf("MaxConnsPerHost = %d, want 25", transport.MaxConnsPerHost)
	}
	if transport.IdleConnTimeout != 90*time.Second {
		t.Errorf("IdleConnTimeout = %v, want 90s", transport.IdleConnTimeout)
	}
}

func TestNew_NoRedirectFollow(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/r" {
			http.Redirect(w, r, "/elsewhere", http.StatusFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	resp, err := New(Config{}).Get(srv.URL + "/r")
	if err != nil {
		t.Fatalf("Get() = %v", err)
	}
	defer resp.Body.Close()

	// The 302 itself is the classification signal.
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("StatusCode = %d, want 302", resp.StatusCode)
	}
}

func TestDefault_SharedInstance(t *testing.T) {
	t.Parallel()

	if Default() != Default() {
		t.Fatal("Default() returned different instances")
	}
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	cfg := WithTimeout(5 * time.Second)
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want 5s", cfg.Timeout)
	}
	if !cfg.InsecureSkipVerify {
		t.Fatal("InsecureSkipVerify should carry over from DefaultConfig")
	}
}

func TestNew_MalformedProxyIgnored(t *testing.T) {
	t.Parallel()

	client := New(Config{Proxy: "://not-a-url"})
	transport := client.Transport.(*http.Transport)
	if transport.Proxy != nil {
		t.Fatal("malformed proxy should leave transport.Proxy nil")
	}
}
