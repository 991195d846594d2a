package stats

import (
	"sync"
	"testing"
)

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()

	for i := 0; i < 100; i++ {
		r.Record("login", float64(10+i), true)
	}
	r.Record("login", 500, false)
	r.Record("browse", 25, true)

	snapshot := r.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(snapshot))
	}

	// Sorted by step id
	if snapshot[0].StepID != "browse" || snapshot[1].StepID != "login" {
		t.Errorf("Expected snapshot sorted by id, got %v", snapshot)
	}

	login := snapshot[1]
	if login.Count != 101 {
		t.Errorf("Expected 101 recordings, got %d", login.Count)
	}
	if login.Failures != 1 {
		t.Errorf("Expected 1 failure, got %d", login.Failures)
	}
	if login.P50Ms < 10 || login.P50Ms > 110 {
		t.Errorf("P50 %.2f outside recorded range", login.P50Ms)
	}
	if login.P95Ms < login.P50Ms {
		t.Errorf("P95 %.2f below P50 %.2f", login.P95Ms, login.P50Ms)
	}
	// Histogram resolution is 3 significant figures
	if login.MaxMs < 499 || login.MaxMs > 501 {
		t.Errorf("Expected max near 500ms, got %.2f", login.MaxMs)
	}

	ok, failed := r.Totals()
	if ok != 101 || failed != 1 {
		t.Errorf("Totals() = (%d, %d), want (101, 1)", ok, failed)
	}
}

func TestRecorderClampsOutOfRangeValues(t *testing.T) {
	r := NewRecorder()
	r.Record("s", 0, true)    // below histogram minimum
	r.Record("s", 1e12, true) // above histogram maximum
	r.Record("s", -5, false)  // negative host measurement

	snapshot := r.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Count != 3 {
		t.Fatalf("Expected 3 clamped recordings, got %v", snapshot)
	}
}

func TestRecorderEmpty(t *testing.T) {
	r := NewRecorder()
	if len(r.Snapshot()) != 0 {
		t.Error("Expected empty snapshot")
	}
	ok, failed := r.Totals()
	if ok != 0 || failed != 0 {
		t.Errorf("Expected zero totals, got (%d, %d)", ok, failed)
	}
}

func TestRecorderConcurrent(t *testing.T) {
	r := NewRecorder()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				r.Record("step", 20, i%10 != 0)
			}
		}()
	}
	wg.Wait()

	snapshot := r.Snapshot()
	if len(snapshot) != 1 || snapshot[0].Count != 8000 {
		t.Errorf("Expected 8000 recordings, got %v", snapshot)
	}
	ok, failed := r.Totals()
	if ok+failed != 8000 || failed != 800 {
		t.Errorf("Totals() = (%d, %d), want 7200 ok and 800 failed", ok, failed)
	}
}
