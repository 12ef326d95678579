package main

import (
	"sync"
	"testing"
)

func TestGenerateIDLength(t *testing.T) {
	id := GenerateID(16)
	if len(id) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(id))
	}
	if id == GenerateID(16) {
		t.Error("two generated IDs collided")
	}
}

func TestRandFloatRange(t *testing.T) {
	for i := 0; i < 10000; i++ {
		v := randFloat()
		if v < 0 || v >= 1 {
			t.Fatalf("randFloat out of range: %v", v)
		}
	}
}

// Rooms roll concurrently from their own goroutines, so the generator
// has to hold up under parallel callers.
func TestRandFloatConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5000; i++ {
				if v := randFloat(); v < 0 || v >= 1 {
					t.Errorf("randFloat out of range: %v", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}
