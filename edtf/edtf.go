// Package edtf normalizes the free-text date strings found in VAULT
// metadata into EDTF level 0 values (YYYY, YYYY-MM, YYYY-MM-DD, or a
// slash-separated range of two of these).
//
// One extension on top of plain EDTF: season and semester names parse to
// EDTF season codes (21-24) but the consuming repository does not understand
// season codes, so they are substituted with an approximate month:
// spring (21) → 02, summer (22) → 05, autumn/fall (23) → 08, winter (24) → 11.
package edtf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	yearRegex      = regexp.MustCompile(`^\d{4}$`)
	yearMonthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	fullDateRegex  = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`)
	timestampRegex = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})T\d{2}:`)
	yearRangeRegex = regexp.MustCompile(`^(\d{4})\s*[-–/]\s*(\d{4})$`)
	usSlashRegex   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	seasonRegex    = regexp.MustCompile(`^(?i)(spring|summer|autumn|fall|winter)\s+(\d{4})$`)
	monthYearRegex = regexp.MustCompile(`^(?i)([a-z]+)\.?\s+(\d{4})$`)
	monthDayRegex  = regexp.MustCompile(`^(?i)([a-z]+)\.?\s+(\d{1,2}),?\s+(\d{4})$`)
	circaRegex     = regexp.MustCompile(`^(?i)(c\.?|ca\.?|circa)\s*(\d{4})$`)
)

// months of each season per the 02/05/08/11 convention
var seasonMonths = map[string]string{
	"spring": "02",
	"summer": "05",
	"autumn": "08",
	"fall":   "08",
	"winter": "11",
}

var monthNumbers = map[string]int{
	"january": 1, "jan": 1,
	"february": 2, "feb": 2,
	"march": 3, "mar": 3,
	"april": 4, "apr": 4,
	"may":  5,
	"june": 6, "jun": 6,
	"july": 7, "jul": 7,
	"august": 8, "aug": 8,
	"september": 9, "sep": 9, "sept": 9,
	"october": 10, "oct": 10,
	"november": 11, "nov": 11,
	"december": 12, "dec": 12,
}

// Normalize converts a free-text date into an EDTF level 0 string. It
// returns "" when the input cannot be parsed; unparseable dates are a soft
// miss, never an error.
func Normalize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	// already EDTF level 0
	if yearRegex.MatchString(text) || yearMonthRegex.MatchString(text) || fullDateRegex.MatchString(text) {
		return text
	}

	// ISO timestamps like item.createdDate: 2019-04-25T16:22:52.704-07:00
	if m := timestampRegex.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	// season or semester name: "Summer 2020" → 2020-22 → 2020-05
	if m := seasonRegex.FindStringSubmatch(text); m != nil {
		return m[2] + "-" + seasonMonths[strings.ToLower(m[1])]
	}

	// "October 1998", "Oct. 1998"
	if m := monthYearRegex.FindStringSubmatch(text); m != nil {
		if month, ok := monthNumbers[strings.ToLower(m[1])]; ok {
			return fmt.Sprintf("%s-%02d", m[2], month)
		}
	}

	// "October 1, 1998"
	if m := monthDayRegex.FindStringSubmatch(text); m != nil {
		month, ok := monthNumbers[strings.ToLower(m[1])]
		if ok {
			day, _ := strconv.Atoi(m[2])
			if day >= 1 && day <= 31 {
				return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
			}
		}
	}

	// US short dates like 10/1/93
	if m := usSlashRegex.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			// VAULT has no digitized material newer than its own era
			if year <= 30 {
				year += 2000
			} else {
				year += 1900
			}
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		}
	}

	// year ranges: 1996-1997 or 1996/1997
	if m := yearRangeRegex.FindStringSubmatch(text); m != nil {
		return m[1] + "/" + m[2]
	}

	// approximate years: "ca. 1965"
	if m := circaRegex.FindStringSubmatch(text); m != nil {
		return m[2]
	}

	// general range: normalize each side independently
	if strings.Count(text, "/") == 1 && len(text) > 10 {
		parts := strings.SplitN(text, "/", 2)
		start := Normalize(parts[0])
		end := Normalize(parts[1])
		if start != "" && end != "" {
			return start + "/" + end
		}
	}

	return ""
}

// NormalizeRange normalizes a point-start/point-end pair into an EDTF range.
// Each side is normalized independently; "" is returned when either side
// fails to parse.
func NormalizeRange(start, end string) string {
	s := Normalize(start)
	e := Normalize(end)
	if s == "" || e == "" {
		return ""
	}
	return s + "/" + e
}
