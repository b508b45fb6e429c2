package scrape

import (
	"testing"
)

func TestSortAndCap(t *testing.T) {
	entries := []Entry{
		{URL: "a", Stars: 100},
		{URL: "b", Stars: 500},
		{URL: "c", Stars: 250},
	}

	got := SortAndCap(entries, 10)
	want := []int{500, 250, 100}
	for i := range want {
		if got[i].Stars != want[i] {
			t.Fatalf("sorted stars = %v, want %v", stars(got), want)
		}
	}

	// Input must not be reordered.
	if entries[0].URL != "a" || entries[1].URL != "b" {
		t.Error("SortAndCap must not modify its input")
	}
}

func TestSortAndCap_StableOnTies(t *testing.T) {
	entries := []Entry{
		{URL: "first", Stars: 100},
		{URL: "second", Stars: 100},
		{URL: "last", Stars: 50},
	}

	got := SortAndCap(entries, 3)
	if got[0].URL != "first" || got[1].URL != "second" {
		t.Errorf("tied entries reordered: %v", urls(got))
	}
}

func TestSortAndCap_Capping(t *testing.T) {
	entries := []Entry{
		{URL: "a", Stars: 1},
		{URL: "b", Stars: 3},
		{URL: "c", Stars: 2},
	}

	tests := []struct {
		name string
		rows int
		want []int
	}{
		{"cap below size", 2, []int{3, 2}},
		{"zero rows", 0, []int{}},
		{"cap above size", 10, []int{3, 2, 1}},
		{"negative rows", -1, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SortAndCap(entries, tt.rows)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Stars != tt.want[i] {
					t.Errorf("stars = %v, want %v", stars(got), tt.want)
				}
			}
		})
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{9999, "10.0K"}, // rounds up before the band check; long-standing output
		{10000, "10K"},
		{50000, "50K"},
		{999999, "1000K"},
		{1000000, "1000000"},
		{2500000, "2500000"},
	}

	for _, tt := range tests {
		if got := Humanize(tt.n); got != tt.want {
			t.Errorf("Humanize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
