package geometry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/1broseidon/wingeom/internal/classify"
	"github.com/1broseidon/wingeom/internal/platform"
)

func rect(l, t, r, b int32) *platform.Rect {
	return &platform.Rect{Left: l, Top: t, Right: r, Bottom: b}
}

func newResolver(t *testing.T, windows map[platform.Handle]platform.FixtureWindow) (*Resolver, *platform.Fixture) {
	t.Helper()
	f := &platform.Fixture{Windows: windows}
	c, err := classify.New(f, classify.Options{})
	if err != nil {
		t.Fatalf("classify.New: %v", err)
	}
	return NewResolver(f, c, nil), f
}

func TestReconcile(t *testing.T) {
	tests := []struct {
		name       string
		base, ext  platform.Rect
		want       platform.Rect
		wantPolicy Policy
	}{
		{
			name: "equal", base: *rect(10, 10, 110, 90), ext: *rect(10, 10, 110, 90),
			want: *rect(10, 10, 110, 90), wantPolicy: PolicyEqual,
		},
		{
			name: "base larger", base: *rect(0, 0, 100, 100), ext: *rect(0, 0, 50, 50),
			want: *rect(0, 0, 100, 100), wantPolicy: PolicyBaseLarger,
		},
		{
			name: "base smaller", base: *rect(0, 0, 50, 50), ext: *rect(-7, 0, 107, 107),
			want: *rect(-7, 0, 107, 107), wantPolicy: PolicyExtendedLarger,
		},
		{
			name: "wider but shorter", base: *rect(0, 0, 200, 50), ext: *rect(0, 0, 100, 100),
			want: *rect(0, 0, 200, 50), wantPolicy: PolicyMixedKeepBase,
		},
		{
			name: "narrower but taller", base: *rect(0, 0, 50, 200), ext: *rect(0, 0, 100, 100),
			want: *rect(0, 0, 50, 200), wantPolicy: PolicyMixedKeepBase,
		},
		{
			name: "same size different origin", base: *rect(0, 0, 100, 100), ext: *rect(5, 5, 105, 105),
			want: *rect(0, 0, 100, 100), wantPolicy: PolicyMixedKeepBase,
		},
		{
			name: "missing extended", base: *rect(0, 0, 100, 100), ext: platform.Rect{},
			want: *rect(0, 0, 100, 100), wantPolicy: PolicyBaseLarger,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, policy := Reconcile(tt.base, tt.ext)
			if got != tt.want || policy != tt.wantPolicy {
				t.Fatalf("Reconcile() = %v, %s; want %v, %s", got, policy, tt.want, tt.wantPolicy)
			}
		})
	}
}

func TestResolveEqualRectsUnchanged(t *testing.T) {
	r, _ := newResolver(t, map[platform.Handle]platform.FixtureWindow{
		1: {ShowCmd: 1, Rect: rect(40, 30, 840, 630), Extended: rect(40, 30, 840, 630)},
	})
	if got := r.Resolve(1); got != *rect(40, 30, 840, 630) {
		t.Fatalf("Resolve() = %v", got)
	}
}

func TestResolveBaseLargerKeepsRaw(t *testing.T) {
	r, _ := newResolver(t, map[platform.Handle]platform.FixtureWindow{
		1: {ShowCmd: 1, Rect: rect(0, 0, 100, 100), Extended: rect(0, 0, 50, 50)},
	})
	if got := r.Resolve(1); got != *rect(0, 0, 100, 100) {
		t.Fatalf("Resolve() = %v, want raw rect", got)
	}
}

func TestResolveMaximizedUsesWorkArea(t *testing.T) {
	r, f := newResolver(t, map[platform.Handle]platform.FixtureWindow{
		1: {
			ShowCmd:  3,
			Rect:     rect(-8, -8, 1928, 1048),
			Extended: rect(0, 0, 1920, 1040),
			WorkArea: rect(0, 0, 1920, 1040),
		},
	})

	res := r.ResolveDetailed(1)
	if !res.Maximized {
		t.Fatal("expected maximized")
	}
	if res.Rect != *rect(0, 0, 1920, 1040) || res.Policy != PolicyEqual {
		t.Fatalf("ResolveDetailed() = %+v", res)
	}
	if f.Calls("WindowRect") != 0 {
		t.Fatal("maximized window should not read the raw rect")
	}
}

func TestResolveMissingExtendedKeepsBase(t *testing.T) {
	r, _ := newResolver(t, map[platform.Handle]platform.FixtureWindow{
		1: {ShowCmd: 1, Rect: rect(10, 10, 300, 200)},
	})
	res := r.ResolveDetailed(1)
	if res.Rect != *rect(10, 10, 300, 200) {
		t.Fatalf("Resolve() = %v, want base", res.Rect)
	}
	if !res.Extended.IsEmpty() {
		t.Fatalf("extended = %v, want zero", res.Extended)
	}
}

func TestResolveMissingBaseIsZero(t *testing.T) {
	r, _ := newResolver(t, map[platform.Handle]platform.FixtureWindow{
		1: {ShowCmd: 1, Extended: rect(0, 0, 50, 50)},
		2: {ShowCmd: 3, Rect: rect(0, 0, 50, 50)},
	})

	for _, h := range []platform.Handle{1, 2, 0xdead} {
		res := r.ResolveDetailed(h)
		if res.Rect != (platform.Rect{}) || res.Policy != PolicyUnavailable {
			t.Errorf("ResolveDetailed(%#x) = %+v, want zero rect", uintptr(h), res)
		}
	}
}

func TestResolversShareFixtureConcurrently(t *testing.T) {
	f := &platform.Fixture{Windows: map[platform.Handle]platform.FixtureWindow{
		1: {Class: "Chrome_WidgetWin_1", ShowCmd: 1, ExStyle: platform.ExStyleWindowEdge,
			Rect: rect(0, 0, 200, 50), Extended: rect(0, 0, 100, 100)},
		2: {Class: "Notepad", ShowCmd: 3, Style: platform.StyleBorder,
			Rect: rect(-8, -8, 1928, 1048), Extended: rect(0, 0, 1920, 1040), WorkArea: rect(0, 0, 1920, 1040)},
	}}
	c, err := classify.New(f, classify.Options{Rules: []string{`class == "Chrome_WidgetWin_1"`}})
	if err != nil {
		t.Fatalf("classify.New: %v", err)
	}
	r := NewResolver(f, c, nil)

	type answer struct {
		res    Resolution
		square bool
		why    string
	}
	ask := func(h platform.Handle) answer {
		return answer{res: r.ResolveDetailed(h), square: c.IsSquareEdged(h), why: c.Explain(h)}
	}

	want := map[platform.Handle]answer{1: ask(1), 2: ask(2)}
	perRound := f.Calls("Placement")

	const workers, rounds = 8, 50
	var wg sync.WaitGroup
	errs := make(chan string, workers*rounds*2)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				for _, h := range []platform.Handle{1, 2} {
					if got := ask(h); got != want[h] {
						errs <- fmt.Sprintf("window %d: got %+v, want %+v", h, got, want[h])
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Error(e)
	}

	if got, want := f.Calls("Placement"), perRound*(1+workers*rounds); got != want {
		t.Fatalf("Placement calls = %d, want %d", got, want)
	}
}
