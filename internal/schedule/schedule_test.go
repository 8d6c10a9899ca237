package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

var epoch = time.Date(2026, 7, 17, 0, 0, 0, 0, time.UTC)

func TestManualRunsInDueOrder(t *testing.T) {
	m := NewManual(epoch)
	var got []string
	m.AfterFunc(600*time.Millisecond, func() { got = append(got, "commit") })
	m.AfterFunc(300*time.Millisecond, func() { got = append(got, "fade") })
	m.AfterFunc(300*time.Millisecond, func() { got = append(got, "fade-2") })

	if ran := m.Advance(299 * time.Millisecond); ran != 0 {
		t.Fatalf("Expected nothing before due time, got %d", ran)
	}
	if ran := m.Advance(time.Second); ran != 3 {
		t.Fatalf("Expected 3 tasks to run, got %d", ran)
	}
	if diff := cmp.Diff([]string{"fade", "fade-2", "commit"}, got); diff != "" {
		t.Errorf("run order mismatch (-want +got):\n%s", diff)
	}
	if !m.Now().Equal(epoch.Add(1299 * time.Millisecond)) {
		t.Errorf("Expected clock at +1.299s, got %v", m.Now().Sub(epoch))
	}
}

func TestManualStop(t *testing.T) {
	m := NewManual(epoch)
	fired := false
	task := m.AfterFunc(time.Second, func() { fired = true })

	if !task.Stop() {
		t.Fatal("Expected first Stop to report cancellation")
	}
	if task.Stop() {
		t.Error("Expected second Stop to report false")
	}
	m.Advance(2 * time.Second)
	if fired {
		t.Error("Stopped task must not run")
	}
	if m.Pending() != 0 {
		t.Errorf("Expected 0 pending, got %d", m.Pending())
	}
}

func TestManualStopAfterFire(t *testing.T) {
	m := NewManual(epoch)
	task := m.AfterFunc(time.Millisecond, func() {})
	m.Advance(time.Millisecond)
	if task.Stop() {
		t.Error("Expected Stop after fire to return false")
	}
}

func TestManualChainedTasks(t *testing.T) {
	m := NewManual(epoch)
	var order []int
	m.AfterFunc(300*time.Millisecond, func() {
		order = append(order, 1)
		m.AfterFunc(300*time.Millisecond, func() { order = append(order, 2) })
	})

	m.Advance(600 * time.Millisecond)
	if diff := cmp.Diff([]int{1, 2}, order); diff != "" {
		t.Errorf("chained order mismatch (-want +got):\n%s", diff)
	}
}

func TestRealScheduler(t *testing.T) {
	defer goleak.VerifyNone(t)

	var wg sync.WaitGroup
	wg.Add(1)
	Real{}.AfterFunc(time.Millisecond, wg.Done)
	wg.Wait()

	stopped := Real{}.AfterFunc(time.Hour, func() { t.Error("should not run") })
	if !stopped.Stop() {
		t.Error("Expected Stop to cancel a far-future timer")
	}
}
