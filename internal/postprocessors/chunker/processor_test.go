package chunker

import (
	"reflect"
	"strings"
	"testing"

	"github.com/custodia-labs/membox/internal/core/domain"
)

func pages(texts ...string) []domain.Page {
	out := make([]domain.Page, len(texts))
	for i, t := range texts {
		out[i] = domain.Page{Number: i + 1, Text: t}
	}
	return out
}

func TestNew(t *testing.T) {
	t.Run("default separator", func(t *testing.T) {
		p := New()
		if p.separator != DefaultSeparator {
			t.Errorf("expected separator %q, got %q", DefaultSeparator, p.separator)
		}
	})

	t.Run("custom separator", func(t *testing.T) {
		p := New(WithSeparator(" | "))
		if p.separator != " | " {
			t.Errorf("expected custom separator, got %q", p.separator)
		}
	})

	t.Run("empty separator ignored", func(t *testing.T) {
		p := New(WithSeparator(""))
		if p.separator != DefaultSeparator {
			t.Errorf("expected default separator, got %q", p.separator)
		}
	})
}

func TestProcessor_Name(t *testing.T) {
	p := New()
	if p.Name() != "page-merge" {
		t.Errorf("expected name 'page-merge', got '%s'", p.Name())
	}
}

func TestChunk_MergesSmallPages(t *testing.T) {
	a := strings.Repeat("A", 50)
	b := strings.Repeat("B", 50)
	c := strings.Repeat("C", 500)

	got := New().Chunk(pages(a, b, c), 100)

	want := []domain.Span{
		{PageStart: 1, PageEnd: 2, Text: a + "\n\n" + b},
		{PageStart: 3, PageEnd: 3, Text: c},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("unexpected spans:\n got %+v\nwant %+v", got, want)
	}
}

func TestChunk_EdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		pages    []domain.Page
		minChars int
		want     []domain.Span
	}{
		{
			name:     "no pages",
			pages:    nil,
			minChars: 100,
			want:     []domain.Span{},
		},
		{
			name:     "all pages below minimum",
			pages:    pages("one", "two", "three"),
			minChars: 1000,
			want: []domain.Span{
				{PageStart: 1, PageEnd: 3, Text: "one\n\ntwo\n\nthree"},
			},
		},
		{
			name:     "zero minimum gives one unit per page",
			pages:    pages("one", "two", "three"),
			minChars: 0,
			want: []domain.Span{
				{PageStart: 1, PageEnd: 1, Text: "one"},
				{PageStart: 2, PageEnd: 2, Text: "two"},
				{PageStart: 3, PageEnd: 3, Text: "three"},
			},
		},
		{
			name:     "negative minimum gives one unit per page",
			pages:    pages("one", "two"),
			minChars: -5,
			want: []domain.Span{
				{PageStart: 1, PageEnd: 1, Text: "one"},
				{PageStart: 2, PageEnd: 2, Text: "two"},
			},
		},
		{
			name:     "blank pages dropped",
			pages:    pages("  ", "alpha", "\n\t", "", "beta"),
			minChars: 1000,
			want: []domain.Span{
				{PageStart: 2, PageEnd: 5, Text: "alpha\n\nbeta"},
			},
		},
		{
			name:     "only blank pages",
			pages:    pages(" ", "\n"),
			minChars: 10,
			want:     []domain.Span{},
		},
		{
			name:     "page text is trimmed",
			pages:    pages("  padded  "),
			minChars: 10,
			want: []domain.Span{
				{PageStart: 1, PageEnd: 1, Text: "padded"},
			},
		},
		{
			name:     "long seed page still takes next page only after flush",
			pages:    pages(strings.Repeat("x", 20), "y"),
			minChars: 5,
			want: []domain.Span{
				{PageStart: 1, PageEnd: 1, Text: strings.Repeat("x", 20)},
				{PageStart: 2, PageEnd: 2, Text: "y"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New().Chunk(tt.pages, tt.minChars)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("unexpected spans:\n got %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestChunk_CountsCharactersNotBytes(t *testing.T) {
	// Four ideographs are 12 bytes but only 4 characters.
	got := New().Chunk(pages("世界世界", "next"), 5)
	if len(got) != 1 {
		t.Fatalf("expected pages to merge, got %d spans", len(got))
	}
}

func TestChunk_PreservesOrderAndRanges(t *testing.T) {
	var in []domain.Page
	for i := 1; i <= 40; i++ {
		in = append(in, domain.Page{Number: i, Text: strings.Repeat("w ", i%7+1)})
	}

	got := New().Chunk(in, 12)

	prevEnd := 0
	for i, s := range got {
		if s.PageStart > s.PageEnd {
			t.Errorf("span %d: start %d after end %d", i, s.PageStart, s.PageEnd)
		}
		if s.PageStart <= prevEnd {
			t.Errorf("span %d overlaps previous (start %d, previous end %d)", i, s.PageStart, prevEnd)
		}
		if strings.TrimSpace(s.Text) == "" {
			t.Errorf("span %d is empty", i)
		}
		prevEnd = s.PageEnd
	}
	if prevEnd != 40 {
		t.Errorf("expected last span to end at page 40, got %d", prevEnd)
	}
}

func TestChunk_Deterministic(t *testing.T) {
	in := pages("first page text", "", "second", strings.Repeat("z", 300), "tail")
	p := New()

	a := p.Chunk(in, 50)
	b := p.Chunk(in, 50)

	if !reflect.DeepEqual(a, b) {
		t.Error("expected identical output for identical input")
	}
}
