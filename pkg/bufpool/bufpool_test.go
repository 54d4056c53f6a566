package bufpool

import (
	"bytes"
	"sync"
	"testing"
)

func TestGet_ReturnsEmptyBuffer(t *testing.T) {
	buf := Get()
	defer Put(buf)

	if buf == nil {
		t.Fatal("Get() returned nil")
	}
	if buf.Len() != 0 {
		t.Fatalf("Get() buffer has %d bytes, want empty", buf.Len())
	}
}

func TestPut_ResetsForReuse(t *testing.T) {
	buf := Get()
	buf.WriteString("leftover payload")
	Put(buf)

	again := Get()
	defer Put(again)
	if again.Len() != 0 {
		t.Fatalf("recycled buffer has %d bytes, want empty", again.Len())
	}
}

func TestGetSized_Capacity(t *testing.T) {
	buf := GetSized(1 << 20)
	defer Put(buf)

	if buf.Cap() < 1<<20 {
		t.Fatalf("GetSized(1MB) cap = %d", buf.Cap())
	}
	if buf.Len() != 0 {
		t.Fatalf("GetSized() buffer has %d bytes, want empty", buf.Len())
	}
}

func TestPut_NilSafe(t *testing.T) {
	Put(nil) // must not panic
}

func TestPut_DropsOversized(t *testing.T) {
	big := bytes.NewBuffer(make([]byte, 0, maxPooledSize+1))
	Put(big) // must not panic; buffer is simply dropped
}

func TestConcurrentUse(t *testing.T) {
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				buf := GetSized(4096)
				buf.WriteString("payload")
				if buf.Len() != 7 {
					t.Error("buffer shared across goroutines")
				}
				Put(buf)
			}
		}()
	}
	wg.Wait()
}
