package logcache

import (
	"fmt"
	"slices"
	"testing"

	"termcanvas/internal/segment"
)

func line(kind segment.Kind, text string) segment.LineGroup {
	return segment.LineGroup{Kind: kind, Segments: []segment.Segment{{Text: text, Width: float64(len(text)), Kind: kind}}}
}

func texts(groups []segment.LineGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Text())
	}
	return out
}

func filled(n int) *Cache {
	c := New()
	for i := 0; i < n; i++ {
		c.Append(line(segment.KindOutput, fmt.Sprintf("line-%d", i)))
	}
	return c
}

func TestCacheAppendPreservesOrder(t *testing.T) {
	c := New()
	c.Append(line(segment.KindOutput, "a"), line(segment.KindOutput, "b"))
	c.Append(line(segment.KindInput, "c"))

	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}
	if got := texts(c.Slice(0, c.Len())); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Fatalf("order = %q", got)
	}
	last, ok := c.Last()
	if !ok || last.Kind != segment.KindInput {
		t.Fatalf("Last = %+v, %v", last, ok)
	}
}

func TestCacheReplaceLastYieldsOneFewerGroup(t *testing.T) {
	for _, start := range []int{0, 1, 7} {
		appended := filled(start)
		appended.Append(line(segment.KindInput, "h"))
		appended.Append(line(segment.KindInput, "he"))

		replaced := filled(start)
		replaced.Append(line(segment.KindInput, "h"))
		replaced.ReplaceLast(line(segment.KindInput, "he"))

		if replaced.Len() != appended.Len()-1 {
			t.Fatalf("start=%d: replaced=%d appended=%d", start, replaced.Len(), appended.Len())
		}
		last, _ := replaced.Last()
		if last.Text() != "he" {
			t.Fatalf("start=%d: last = %q", start, last.Text())
		}
	}
}

func TestCacheRemoveLastReusesArena(t *testing.T) {
	c := New()
	c.Append(line(segment.KindOutput, "keep"))
	c.Append(segment.LineGroup{Kind: segment.KindInput, Segments: []segment.Segment{{Text: "x"}, {Text: "y"}}})
	if !c.RemoveLast() {
		t.Fatalf("RemoveLast on non-empty cache returned false")
	}
	if len(c.arena) != 1 {
		t.Fatalf("arena should shrink to the remaining group, got %d", len(c.arena))
	}
	c.Append(line(segment.KindOutput, "next"))
	if got := texts(c.Slice(0, 2)); !slices.Equal(got, []string{"keep", "next"}) {
		t.Fatalf("after reuse = %q", got)
	}

	empty := New()
	if empty.RemoveLast() {
		t.Fatalf("RemoveLast on empty cache returned true")
	}
	empty.ReplaceLast(line(segment.KindInput, "first"))
	if empty.Len() != 1 {
		t.Fatalf("ReplaceLast on empty cache should append, Len=%d", empty.Len())
	}
}

func TestCacheAtDoesNotAliasFollowingGroups(t *testing.T) {
	c := New()
	c.Append(line(segment.KindOutput, "a"), line(segment.KindOutput, "b"))
	first := c.At(0)
	_ = append(first.Segments, segment.Segment{Text: "clobber"})
	if got := c.At(1).Text(); got != "b" {
		t.Fatalf("append through At() overwrote the next group: %q", got)
	}
}

func TestCacheClearIsIdempotent(t *testing.T) {
	c := filled(5)
	c.Clear()
	c.Clear()
	if c.Len() != 0 {
		t.Fatalf("Len after Clear = %d", c.Len())
	}
	if _, ok := c.Last(); ok {
		t.Fatalf("Last on cleared cache should report false")
	}
	if w := FromTail(c, 10); w.Len() != 0 {
		t.Fatalf("window of cleared cache = %d", w.Len())
	}
}
