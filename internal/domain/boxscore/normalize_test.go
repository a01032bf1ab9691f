package boxscore

import (
	"math"
	"testing"
)

func TestParseMinutes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want float64
	}{
		{name: "minutes and seconds", in: "34:12", want: 34.2},
		{name: "hour form", in: "1:05:00", want: 65.0},
		{name: "empty", in: "", want: 0},
		{name: "whitespace only", in: "   ", want: 0},
		{name: "plain number", in: "28", want: 28},
		{name: "plain float", in: "12.5", want: 12.5},
		{name: "garbage", in: "DNP - Injury", want: 0},
		{name: "garbage with colon", in: "ab:cd", want: 0},
		{name: "too many segments", in: "1:2:3:4", want: 0},
		{name: "zero line", in: "0:00", want: 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ParseMinutes(tc.in)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("ParseMinutes(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractSeason(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		in     string
		want   int
		wantOK bool
	}{
		{name: "league id", in: "0022300456", want: 2023, wantOK: true},
		{name: "league id older season", in: "0021900001", want: 2019, wantOK: true},
		{name: "calendar id autumn", in: "20231115", want: 2023, wantOK: true},
		{name: "calendar id spring", in: "20240310", want: 2023, wantOK: true},
		{name: "calendar id july boundary", in: "20230701", want: 2023, wantOK: true},
		{name: "calendar id june boundary", in: "20230630", want: 2022, wantOK: true},
		{name: "empty", in: "", wantOK: false},
		{name: "wrong prefix", in: "1022300456", wantOK: false},
		{name: "non numeric", in: "00abc00456", wantOK: false},
		{name: "bad calendar date", in: "20231345", wantOK: false},
		{name: "wrong length", in: "12345", wantOK: false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ExtractSeason(tc.in)
			if ok != tc.wantOK {
				t.Fatalf("ExtractSeason(%q) ok = %v, want %v", tc.in, ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("ExtractSeason(%q) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestExtractSeasonBothEncodingsAgree(t *testing.T) {
	t.Parallel()

	// The same game carried under either id form must land in the same season.
	league, ok := ExtractSeason("0022300456")
	if !ok {
		t.Fatalf("league id did not parse")
	}
	calendar, ok := ExtractSeason("20240112")
	if !ok {
		t.Fatalf("calendar id did not parse")
	}
	if league != calendar {
		t.Fatalf("season mismatch: league id %d, calendar id %d", league, calendar)
	}
}

func TestPositionGroup(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		inGame string
		listed string
		want   string
	}{
		{name: "guard starter", inGame: "G", listed: "G", want: "G"},
		{name: "guard forward combo", inGame: "G", listed: "G-F", want: "G"},
		{name: "forward starter", inGame: "F", listed: "F-C", want: "F"},
		{name: "center starter", inGame: "C", listed: "C-F", want: "C"},
		{name: "bench guard", inGame: "", listed: "G", want: "G"},
		{name: "bench combo forward", inGame: "", listed: "F-G", want: "F"},
		{name: "bench center", inGame: "", listed: "C", want: "C"},
		{name: "slot and listing disagree keeps slot", inGame: "F", listed: "G", want: "F"},
		{name: "unknown listing passes through", inGame: "", listed: "UTIL", want: "UTIL"},
		{name: "both empty", inGame: "", listed: "", want: ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := PositionGroup(tc.inGame, tc.listed); got != tc.want {
				t.Fatalf("PositionGroup(%q, %q) = %q, want %q", tc.inGame, tc.listed, got, tc.want)
			}
		})
	}
}

func TestListedPositionGroup(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"G":    "G",
		"G-F":  "G",
		"F":    "F",
		"F-G":  "F",
		"F-C":  "F",
		"C":    "C",
		"C-F":  "C",
		"":     "",
		"UTIL": "UTIL",
	}

	for in, want := range cases {
		if got := ListedPositionGroup(in); got != want {
			t.Fatalf("ListedPositionGroup(%q) = %q, want %q", in, got, want)
		}
	}
}
