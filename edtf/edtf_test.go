package edtf

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// already EDTF level 0
		{"2020", "2020"},
		{"2020-05", "2020-05"},
		{"2020-05-01", "2020-05-01"},
		// timestamps keep only the date part
		{"2019-04-25T16:22:52.704-07:00", "2019-04-25"},
		// seasons and semesters use the approximate-month substitution
		{"Summer 2020", "2020-05"},
		{"spring 2019", "2019-02"},
		{"fall 2017", "2017-08"},
		{"Autumn 2017", "2017-08"},
		{"winter 2020", "2020-11"},
		// month names
		{"October 1998", "1998-10"},
		{"Oct. 1998", "1998-10"},
		{"October 1, 1998", "1998-10-01"},
		// US short dates, century inferred from the year
		{"10/1/93", "1993-10-01"},
		{"1/15/05", "2005-01-15"},
		// ranges
		{"1996-1997", "1996/1997"},
		{"1996/1997", "1996/1997"},
		// approximate years
		{"ca. 1965", "1965"},
		{"circa 1965", "1965"},
		// soft misses
		{"", ""},
		{"n.d.", ""},
		{"unknown", ""},
		{"13/45/2020", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeRange(t *testing.T) {
	tests := []struct {
		start, end string
		want       string
	}{
		{"1996", "1997", "1996/1997"},
		{"Fall 2017", "Spring 2018", "2017-08/2018-02"},
		{"1996", "", ""},
		{"", "1997", ""},
		{"garbage", "1997", ""},
	}

	for _, tt := range tests {
		if got := NormalizeRange(tt.start, tt.end); got != tt.want {
			t.Errorf("NormalizeRange(%q, %q) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}
