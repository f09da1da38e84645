package utils

import "strconv"

// Int64ToStr formats an int64 ID for log messages and error details.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 parses a base-10 int64, as used for path and query ID params.
func StrToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
