package ir

import (
	"errors"
	"reflect"
	"testing"
)

func TestRoot_EnsureNamespace(t *testing.T) {
	r := &Root{}

	a := r.EnsureNamespace("google", "protobuf")
	b := r.EnsureNamespace("google", "api")
	c := r.EnsureNamespace("google", "protobuf")

	if a != c {
		t.Error("EnsureNamespace returned a different namespace for the same path")
	}
	if a == b {
		t.Error("EnsureNamespace returned the same namespace for different paths")
	}
	if len(r.Nested) != 1 {
		t.Fatalf("root entries = %d, want 1", len(r.Nested))
	}

	google := r.Nested[0].Namespace
	var names []string
	for _, e := range google.Nested {
		names = append(names, e.Name())
	}
	if want := []string{"protobuf", "api"}; !reflect.DeepEqual(names, want) {
		t.Errorf("google children = %v, want %v (insertion order)", names, want)
	}

	if got := r.EnsureNamespace(); got != nil {
		t.Errorf("EnsureNamespace() with no segments = %v, want nil", got)
	}
}

func TestRoot_EnsureNamespace_SkipsSameNamedMessage(t *testing.T) {
	r := &Root{}
	r.Add(MessageEntry(&Message{Name: "hello"}))

	ns := r.EnsureNamespace("hello")
	if ns == nil {
		t.Fatal("EnsureNamespace returned nil")
	}
	if len(r.Nested) != 2 {
		t.Fatalf("root entries = %d, want 2", len(r.Nested))
	}
	if r.Nested[1].Kind != KindNamespace {
		t.Errorf("second entry kind = %v, want Namespace", r.Nested[1].Kind)
	}
}

func TestRoot_Lookup(t *testing.T) {
	r := &Root{}
	want := r.EnsureNamespace("a", "b", "c")

	if got := r.Lookup("a", "b", "c"); got != want {
		t.Errorf("Lookup(a.b.c) = %v, want %v", got, want)
	}
	if got := r.Lookup("a", "x"); got != nil {
		t.Errorf("Lookup(a.x) = %v, want nil", got)
	}
	if got := r.Lookup(); got != nil {
		t.Errorf("Lookup() = %v, want nil", got)
	}
}

func TestRoot_Walk(t *testing.T) {
	r := &Root{}
	hello := r.EnsureNamespace("hello")
	outer := &Message{Name: "Outer"}
	outer.Add(EnumEntry(&Enum{Name: "Inner"}))
	hello.Add(ServiceEntry(&Service{Name: "Greeter", Methods: []Method{{Name: "SayHello"}, {Name: "SayBye"}}}))
	hello.Add(MessageEntry(outer))

	var visited []string
	err := r.Walk(func(scope []string, e Entry) error {
		path := ""
		for _, s := range scope {
			path += s + "."
		}
		visited = append(visited, path+e.Name())
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	want := []string{"hello", "hello.Greeter", "hello.Outer", "hello.Outer.Inner"}
	if !reflect.DeepEqual(visited, want) {
		t.Errorf("visited = %v, want %v", visited, want)
	}

	stats := r.Stats()
	wantStats := Stats{Namespaces: 1, Services: 1, Methods: 2, Messages: 1, Enums: 1}
	if stats != wantStats {
		t.Errorf("Stats() = %+v, want %+v", stats, wantStats)
	}
}

func TestRoot_Walk_StopsOnError(t *testing.T) {
	r := &Root{}
	r.EnsureNamespace("a")
	r.EnsureNamespace("b")

	stop := errors.New("stop")
	calls := 0
	err := r.Walk(func(_ []string, _ Entry) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("Walk() error = %v, want %v", err, stop)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
