package evidence

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/skill-validator/internal/types"
)

const (
	monthPattern = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	datePattern  = `(?:` + monthPattern + `\s+\d{4}|\d{1,2}/\d{4}|\d{4})`

	minYear = 1950
	maxYear = 2100
)

var (
	rangeRe = regexp.MustCompile(`(?i)\b(` + datePattern + `)\s*(?:-|–|—|to|until)\s*(` + datePattern + `|present|current|now|today)\b`)
	// Bare years only count when they close a clause, so "by 2000 ms" is not a date
	singleRe = regexp.MustCompile(`(?i)\b(` + monthPattern + `\s+\d{4}|\d{1,2}/\d{4})\b|\b(\d{4})\s*(?:[),;|]|\.?\s*$)`)
	monthRe  = regexp.MustCompile(`(?i)^` + monthPattern + `$`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"may": time.May, "jun": time.June, "jul": time.July, "aug": time.August,
	"sep": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// parseDate parses one date token. Bare years resolve to January, or to
// December when they close a range.
func parseDate(token string, closing bool) (types.YearMonth, bool) {
	token = strings.TrimSpace(token)

	if slash := strings.Index(token, "/"); slash > 0 {
		month, err1 := strconv.Atoi(token[:slash])
		year, err2 := strconv.Atoi(token[slash+1:])
		if err1 != nil || err2 != nil || month < 1 || month > 12 || !validYear(year) {
			return types.YearMonth{}, false
		}
		return types.YearMonth{Year: year, Month: time.Month(month)}, true
	}

	fields := strings.Fields(token)
	switch len(fields) {
	case 1:
		year, err := strconv.Atoi(fields[0])
		if err != nil || !validYear(year) {
			return types.YearMonth{}, false
		}
		if closing {
			return types.YearMonth{Year: year, Month: time.December}, true
		}
		return types.YearMonth{Year: year, Month: time.January}, true
	case 2:
		if !monthRe.MatchString(fields[0]) {
			return types.YearMonth{}, false
		}
		year, err := strconv.Atoi(fields[1])
		if err != nil || !validYear(year) {
			return types.YearMonth{}, false
		}
		month := monthsByPrefix[strings.ToLower(fields[0][:3])]
		return types.YearMonth{Year: year, Month: month}, true
	}
	return types.YearMonth{}, false
}

func validYear(year int) bool {
	return year >= minYear && year <= maxYear
}

func isCurrentMarker(token string) bool {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "present", "current", "now", "today":
		return true
	}
	return false
}

// findRange returns the first date range on a line. Current ranges have an
// End equal to Start until the resume reference date is known.
func findRange(line string) (*types.DateRange, bool) {
	for _, m := range rangeRe.FindAllStringSubmatch(line, -1) {
		start, ok := parseDate(m[1], false)
		if !ok {
			continue
		}
		if isCurrentMarker(m[2]) {
			return &types.DateRange{Start: start, End: start, Current: true}, true
		}
		end, ok := parseDate(m[2], true)
		if !ok || end.Before(start) {
			continue
		}
		return &types.DateRange{Start: start, End: end}, true
	}
	return nil, false
}

// singleDates returns the standalone dates on a line.
func singleDates(line string) []types.YearMonth {
	var dates []types.YearMonth
	for _, m := range singleRe.FindAllStringSubmatch(line, -1) {
		token := m[1]
		if token == "" {
			token = m[2]
		}
		if d, ok := parseDate(token, false); ok {
			dates = append(dates, d)
		}
	}
	return dates
}

// findSingleDate returns the first standalone date on a line as a zero-length range.
func findSingleDate(line string) (*types.DateRange, bool) {
	dates := singleDates(line)
	if len(dates) == 0 {
		return nil, false
	}
	return &types.DateRange{Start: dates[0], End: dates[0]}, true
}

// latestDate returns the most recent explicit date in text.
func latestDate(text string) *types.YearMonth {
	var latest *types.YearMonth
	consider := func(ym types.YearMonth) {
		if latest == nil || latest.Before(ym) {
			v := ym
			latest = &v
		}
	}

	for _, line := range strings.Split(text, "\n") {
		for _, m := range rangeRe.FindAllStringSubmatch(line, -1) {
			if start, ok := parseDate(m[1], false); ok {
				consider(start)
			}
			if end, ok := parseDate(m[2], true); ok {
				consider(end)
			}
		}
		for _, d := range singleDates(rangeRe.ReplaceAllString(line, " ")) {
			consider(d)
		}
	}
	return latest
}
