package strategy

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperifyio/goleilao/internal/markup"
	"github.com/hyperifyio/goleilao/internal/record"
)

type fakeStrategy struct {
	name   string
	fields record.RawFieldMap
	err    error
	panics bool
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Extract(context.Context, *markup.Page) (record.RawFieldMap, error) {
	if f.panics {
		panic("boom")
	}
	return f.fields, f.err
}

func TestCascadeMergesFillMissing(t *testing.T) {
	c := &Cascade{Strategies: []Strategy{
		&fakeStrategy{name: "first", fields: record.RawFieldMap{record.KeyTitle: "A", record.KeyAddress: "Rua A"}},
		&fakeStrategy{name: "second", fields: record.RawFieldMap{record.KeyTitle: "B", record.KeyArea: 80.0}},
	}}
	merged, errs := c.Run(context.Background(), &markup.Page{Text: "x"})

	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	if merged[record.KeyTitle] != "A" {
		t.Errorf("later strategy overwrote title: %v", merged[record.KeyTitle])
	}
	if merged[record.KeyArea] != 80.0 {
		t.Errorf("gap was not filled: %v", merged[record.KeyArea])
	}
}

func TestCascadeIsolatesFailures(t *testing.T) {
	c := &Cascade{Strategies: []Strategy{
		&fakeStrategy{name: "broken", err: errors.New("backend down")},
		&fakeStrategy{name: "panicky", panics: true},
		&fakeStrategy{name: "working", fields: record.RawFieldMap{record.KeyTitle: "Casa"}},
	}}
	merged, errs := c.Run(context.Background(), &markup.Page{Text: "x"})

	if len(errs) != 2 {
		t.Fatalf("errors = %v, want 2 entries", errs)
	}
	if errs[0].Strategy != "broken" || errs[1].Strategy != "panicky" {
		t.Errorf("error attribution wrong: %v", errs)
	}
	if merged[record.KeyTitle] != "Casa" {
		t.Errorf("surviving strategy did not contribute: %v", merged)
	}
}

// An empty page makes every strategy fail; the cascade reports each failure
// and yields an empty record instead of aborting.
func TestCascadeEmptyPageRecordsEveryStrategy(t *testing.T) {
	c := Default(&Semantic{})
	merged, errs := c.Run(context.Background(), &markup.Page{})

	if len(merged) != 0 {
		t.Fatalf("merged = %v, want empty", merged)
	}
	if len(errs) != len(c.Strategies) {
		t.Fatalf("errors = %d, want %d", len(errs), len(c.Strategies))
	}
	names := map[string]bool{}
	for _, e := range errs {
		names[e.Strategy] = true
		if e.Message == "" {
			t.Errorf("empty message for %s", e.Strategy)
		}
	}
	for _, want := range []string{"semantic", "pattern", "structured-markup", "heuristic"} {
		if !names[want] {
			t.Errorf("missing error for %s", want)
		}
	}
}

func TestDefaultOrder(t *testing.T) {
	c := Default(&Semantic{})
	want := []string{"semantic", "pattern", "structured-markup", "heuristic"}
	if len(c.Strategies) != len(want) {
		t.Fatalf("strategies = %d", len(c.Strategies))
	}
	for i, s := range c.Strategies {
		if s.Name() != want[i] {
			t.Errorf("position %d = %s, want %s", i, s.Name(), want[i])
		}
	}
}
