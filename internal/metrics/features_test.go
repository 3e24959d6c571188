package metrics_test

import (
	"testing"

	"github.com/petasbytes/ghostwriter/internal/metrics"
)

func asciiOnly(r rune) bool { return r < 0x80 }

func TestMeasureText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want metrics.TextStats
	}{
		{
			name: "Empty",
			in:   "",
			want: metrics.TextStats{},
		},
		{
			name: "ASCII",
			in:   "hello world",
			want: metrics.TextStats{Bytes: 11, Runes: 11, Words: 2, Lines: 1, Typed: 11},
		},
		{
			name: "TrailingBlankLine",
			in:   "answer\n\n",
			want: metrics.TextStats{Bytes: 8, Runes: 8, Words: 1, Lines: 3, Typed: 8},
		},
		{
			name: "CRLF",
			in:   "a\r\nb\r\nc",
			want: metrics.TextStats{Bytes: 7, Runes: 7, Words: 3, Lines: 3, Typed: 7},
		},
		{
			name: "AccentsSkipped",
			in:   "caf\u00e9 ok",
			want: metrics.TextStats{Bytes: 8, Runes: 7, Words: 2, Lines: 1, Typed: 6, Skipped: 1},
		},
		{
			name: "NBSPSplitsWordsAndIsSkipped",
			in:   "foo\u00a0bar",
			want: metrics.TextStats{Bytes: 8, Runes: 7, Words: 2, Lines: 1, Typed: 6, Skipped: 1},
		},
		{
			name: "ZeroWidthSpaceDoesNotSplit",
			in:   "foo\u200bbar",
			want: metrics.TextStats{Bytes: 9, Runes: 7, Words: 1, Lines: 1, Typed: 6, Skipped: 1},
		},
		{
			name: "Emoji",
			in:   "\U0001F44D\U0001F44D",
			want: metrics.TextStats{Bytes: 8, Runes: 2, Words: 1, Lines: 1, Skipped: 2},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := metrics.MeasureText(tc.in, asciiOnly)
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestMeasureText_NilTypeableCountsAll(t *testing.T) {
	got := metrics.MeasureText("\u00e9\u00e9 x", nil)
	if got.Typed != got.Runes || got.Skipped != 0 {
		t.Fatalf("got %+v", got)
	}
}
