package bson

import "strconv"

// arrayIndexKey returns the conventional decimal-string key for array
// index i.
func arrayIndexKey(i int) string {
	return strconv.Itoa(i)
}
