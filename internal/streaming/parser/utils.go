package parser

import (
	"strconv"
	"strings"
)

// strToIntSafe parses the leading integer of s, returning 0 when there is none
func strToIntSafe(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	if val, err := strconv.Atoi(s[:end]); err == nil {
		return val
	}
	return 0
}

// strToFloatSafe parses the leading decimal number of s, returning 0 when
// there is none
func strToFloatSafe(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	mantissa := end
	end = skipDigits(s, end)
	digits := end - mantissa
	if end < len(s) && s[end] == '.' {
		frac := skipDigits(s, end+1)
		digits += frac - end - 1
		end = frac
	}
	if digits == 0 {
		return 0
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '-' || s[exp] == '+') {
			exp++
		}
		if e := skipDigits(s, exp); e > exp {
			end = e
		}
	}
	if val, err := strconv.ParseFloat(s[:end], 64); err == nil {
		return val
	}
	return 0
}

func skipDigits(s string, i int) int {
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
