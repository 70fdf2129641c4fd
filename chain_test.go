package vkhelper

import (
	"fmt"
	"io"
	"testing"

	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recorder hands out layers that log their acquire and release sequence
type recorder struct {
	seq      int
	acquired map[string]int
	released map[string]int
	order    []string
}

func newRecorder() *recorder {
	return &recorder{acquired: map[string]int{}, released: map[string]int{}}
}

func (r *recorder) layer(name string, fail error) Layer {
	return Layer{
		Name: name,
		Acquire: func() error {
			r.seq++
			if fail != nil {
				return fail
			}
			r.acquired[name] = r.seq
			return nil
		},
		Release: func() {
			r.seq++
			r.released[name] = r.seq
			r.order = append(r.order, name)
		},
	}
}

func TestChainReleasesInReverse(t *testing.T) {
	r := newRecorder()
	c := NewChain(quietLogger())

	names := []string{"instance", "device", "pool", "buffer", "memory"}
	layers := make([]Layer, len(names))
	for i, n := range names {
		layers[i] = r.layer(n, nil)
	}

	if err := c.Build(layers...); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if c.Len() != len(names) {
		t.Errorf("Len = %d, want %d", c.Len(), len(names))
	}

	c.Close()

	if len(r.order) != len(names) {
		t.Fatalf("released %d layers, want %d", len(r.order), len(names))
	}
	for i, n := range r.order {
		want := names[len(names)-1-i]
		if n != want {
			t.Errorf("release %d was %s, want %s", i, n, want)
		}
	}
	for i := 1; i < len(names); i++ {
		if r.acquired[names[i]] <= r.acquired[names[i-1]] {
			t.Errorf("%s acquired before %s", names[i], names[i-1])
		}
		if r.released[names[i]] >= r.released[names[i-1]] {
			t.Errorf("%s released after %s", names[i], names[i-1])
		}
	}
	if c.Len() != 0 {
		t.Errorf("Len after Close = %d", c.Len())
	}
}

func TestChainUnwindsOnFailure(t *testing.T) {
	r := newRecorder()
	c := NewChain(quietLogger())
	boom := errors.New("boom")

	err := c.Build(
		r.layer("instance", nil),
		r.layer("device", nil),
		r.layer("image", boom),
		r.layer("view", nil),
	)
	if err == nil {
		t.Fatal("Build succeeded with a failing layer")
	}
	if errors.Cause(err) != boom {
		t.Errorf("cause = %v, want %v", errors.Cause(err), boom)
	}
	if err.Error() != "image: boom" {
		t.Errorf("error = %q", err.Error())
	}

	if fmt.Sprint(r.order) != "[device instance]" {
		t.Errorf("release order = %v", r.order)
	}
	if _, ok := r.acquired["view"]; ok {
		t.Error("layer after the failure was acquired")
	}
	if _, ok := r.released["image"]; ok {
		t.Error("failed layer was released")
	}
	if c.Len() != 0 {
		t.Errorf("Len after failure = %d", c.Len())
	}

	// Close after a failed Build must not release anything twice
	c.Close()
	if len(r.order) != 2 {
		t.Errorf("released %d layers after Close, want 2", len(r.order))
	}
}

func TestChainCloseIsIdempotent(t *testing.T) {
	r := newRecorder()
	c := NewChain(nil)

	if err := c.Build(r.layer("a", nil), r.layer("b", nil)); err != nil {
		t.Fatal(err)
	}
	c.Close()
	c.Close()

	if len(r.order) != 2 {
		t.Errorf("released %d times, want 2", len(r.order))
	}
	if err := c.Build(r.layer("c", nil)); err == nil {
		t.Error("Build on a closed chain succeeded")
	}
}

func TestChainNilFuncs(t *testing.T) {
	c := NewChain(quietLogger())
	acquired := false
	err := c.Build(
		Layer{Name: "no release", Acquire: func() error { acquired = true; return nil }},
		Layer{Name: "no acquire"},
	)
	if err != nil {
		t.Fatal(err)
	}
	if !acquired {
		t.Error("Acquire was not called")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
	c.Close()
}

type fakeResource struct {
	name      string
	destroyed *[]string
}

func (f *fakeResource) Destroy() {
	*f.destroyed = append(*f.destroyed, f.name)
}

func TestOwn(t *testing.T) {
	var destroyed []string
	var first, second *fakeResource

	c := NewChain(quietLogger())
	err := c.Build(
		Own("first", &first, func() (*fakeResource, error) {
			return &fakeResource{name: "first", destroyed: &destroyed}, nil
		}),
		Own("second", &second, func() (*fakeResource, error) {
			if first == nil {
				return nil, errors.New("first not set")
			}
			return &fakeResource{name: "second", destroyed: &destroyed}, nil
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if first == nil || second == nil {
		t.Fatal("Own did not store the resources")
	}

	c.Close()
	if fmt.Sprint(destroyed) != "[second first]" {
		t.Errorf("destroy order = %v", destroyed)
	}
}

func TestOwnFailureLeavesDestinationUnset(t *testing.T) {
	var destroyed []string
	var res *fakeResource

	c := NewChain(quietLogger())
	err := c.Build(Own("res", &res, func() (*fakeResource, error) {
		return nil, ErrNoQueueFamily
	}))
	if !errors.Is(err, ErrNoQueueFamily) {
		t.Errorf("err = %v, want ErrNoQueueFamily", err)
	}
	if res != nil {
		t.Error("destination set on failure")
	}
	if len(destroyed) != 0 {
		t.Errorf("destroyed %v", destroyed)
	}
}
