// Package extjson implements MongoDB Extended JSON (Canonical and
// Relaxed) interchange for bson.Document. Its functions are free
// functions rather than bson.Document methods so that this package can
// depend on bson without bson needing to depend back on it.
package extjson

import (
	"strings"

	"github.com/pkg/errors"
)

// Error is returned by FromJSON on malformed Extended JSON input. It carries
// a breadcrumb path of object keys / array indices to the point of
// failure.
type Error struct {
	Path []string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	where := "$"
	if len(e.Path) > 0 {
		where = "$." + strings.Join(e.Path, ".")
	}
	if e.Err != nil {
		return "extjson: at " + where + ": " + e.Msg + ": " + e.Err.Error()
	}
	return "extjson: at " + where + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func decodingErr(path []string, msg string) *Error {
	return &Error{Path: append([]string(nil), path...), Msg: msg}
}

func wrapDecodingErr(path []string, msg string, cause error) *Error {
	return &Error{Path: append([]string(nil), path...), Msg: msg, Err: errors.WithStack(cause)}
}

func withKey(path []string, key string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = key
	return out
}

func withIndex(path []string, i int) []string {
	return withKey(path, strings.TrimPrefix(itoa(i), ""))
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var b []byte
	for i > 0 {
		b = append([]byte{byte('0' + i%10)}, b...)
		i /= 10
	}
	if neg {
		b = append([]byte{'-'}, b...)
	}
	return string(b)
}
