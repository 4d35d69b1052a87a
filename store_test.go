package flowgraph_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/agentstation/flowgraph"
)

func TestStoreRoundTrip(t *testing.T) {
	type profile struct {
		ID   int
		Name string
	}

	ws := flowgraph.NewStore()
	ws.Set("count", 42)
	ws.Set("name", "alice")
	ws.Set("profile", profile{ID: 1, Name: "alice"})

	count, err := flowgraph.Get[int](ws, "count")
	if err != nil {
		t.Fatalf("Get[int]: %v", err)
	}
	if count != 42 {
		t.Errorf("count = %d, want 42", count)
	}

	name, err := flowgraph.Get[string](ws, "name")
	if err != nil {
		t.Fatalf("Get[string]: %v", err)
	}
	if name != "alice" {
		t.Errorf("name = %q, want alice", name)
	}

	p, err := flowgraph.Get[profile](ws, "profile")
	if err != nil {
		t.Fatalf("Get[profile]: %v", err)
	}
	if p.ID != 1 || p.Name != "alice" {
		t.Errorf("profile = %+v", p)
	}
}

func TestStoreOverwrite(t *testing.T) {
	ws := flowgraph.NewStore()
	ws.Set("k", 1)
	ws.Set("k", 2)

	v, err := flowgraph.Get[int](ws, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != 2 {
		t.Errorf("v = %d, want last write 2", v)
	}
}

func TestStoreErrors(t *testing.T) {
	ws := flowgraph.NewStore()
	ws.Set("n", 10)

	if _, err := flowgraph.Get[int](ws, "missing"); !errors.Is(err, flowgraph.ErrKeyNotFound) {
		t.Errorf("Get missing key: err = %v, want ErrKeyNotFound", err)
	}
	if _, err := flowgraph.Get[string](ws, "n"); !errors.Is(err, flowgraph.ErrTypeMismatch) {
		t.Errorf("Get wrong type: err = %v, want ErrTypeMismatch", err)
	}
	if _, err := ws.GetAny("missing"); !errors.Is(err, flowgraph.ErrKeyNotFound) {
		t.Errorf("GetAny missing key: err = %v, want ErrKeyNotFound", err)
	}
}

func TestStoreHasIdempotent(t *testing.T) {
	ws := flowgraph.NewStore()
	if ws.Has("k") {
		t.Fatal("Has on empty store = true")
	}
	ws.Set("k", flowgraph.ControlSignal{})
	for i := 0; i < 3; i++ {
		if !ws.Has("k") {
			t.Fatalf("Has(%d) = false after Set", i)
		}
	}
}

func TestStoreGetAnyControlSignal(t *testing.T) {
	ws := flowgraph.NewStore()
	ws.Set("route", flowgraph.ControlSignal{})

	raw, err := ws.GetAny("route")
	if err != nil {
		t.Fatalf("GetAny: %v", err)
	}
	if _, ok := raw.(flowgraph.ControlSignal); !ok {
		t.Errorf("stored control signal came back as %T", raw)
	}
}

func TestStoreConcurrency(t *testing.T) {
	ws := flowgraph.NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			ws.Set(string(rune('a'+n%26)), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			ws.Has(string(rune('a' + n%26)))
		}(i)
	}
	wg.Wait()

	if got := len(ws.Keys()); got != 26 {
		t.Errorf("len(Keys) = %d, want 26", got)
	}
	if ws.Len() != 26 {
		t.Errorf("Len = %d, want 26", ws.Len())
	}
}
