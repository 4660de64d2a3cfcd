package notify

import (
	"errors"
	"sync"
	"testing"
)

func TestChangeType_String(t *testing.T) {
	tests := []struct {
		ct   ChangeType
		want string
	}{
		{ChangeReload, "reload"},
		{ChangeError, "error"},
		{ChangeType(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.ct.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.ct, got, tt.want)
		}
	}
}

func TestNotifier_Order(t *testing.T) {
	n := New()
	defer n.Close()

	var got []int
	for i := 0; i < 5; i++ {
		n.Subscribe(func(Change) { got = append(got, i) })
	}

	n.Notify(Change{Type: ChangeReload})

	for i, v := range got {
		if v != i {
			t.Fatalf("delivery order = %v", got)
		}
	}
	if len(got) != 5 {
		t.Errorf("delivered %d, want 5", len(got))
	}
}

func TestNotifier_Unsubscribe(t *testing.T) {
	n := New()
	defer n.Close()

	calls := 0
	sub := n.Subscribe(func(Change) { calls++ })
	sub.Unsubscribe()
	sub.Unsubscribe()

	n.Notify(Change{Type: ChangeReload})
	if calls != 0 {
		t.Errorf("calls = %d after unsubscribe", calls)
	}
	if n.SubscriberCount() != 0 {
		t.Errorf("SubscriberCount() = %d", n.SubscriberCount())
	}
}

func TestNotifier_PanickingObserver(t *testing.T) {
	n := New()
	defer n.Close()

	var got Change
	n.Subscribe(func(Change) { panic("boom") })
	n.Subscribe(func(c Change) { got = c })

	want := errors.New("bad file")
	n.Notify(Change{Type: ChangeError, Source: "a.toml", Err: want})

	if got.Err != want || got.Source != "a.toml" {
		t.Errorf("second observer got %+v", got)
	}
}

func TestNotifier_Closed(t *testing.T) {
	n := New()
	calls := 0
	n.Subscribe(func(Change) { calls++ })
	n.Close()

	n.Notify(Change{Type: ChangeReload})
	if calls != 0 {
		t.Errorf("closed notifier delivered %d changes", calls)
	}
}

func TestNotifier_Concurrent(t *testing.T) {
	n := New()
	defer n.Close()

	var mu sync.Mutex
	count := 0
	n.Subscribe(func(Change) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n.Notify(Change{Type: ChangeReload})
		}()
	}
	wg.Wait()

	if count != 20 {
		t.Errorf("count = %d, want 20", count)
	}
}
