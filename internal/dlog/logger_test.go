package dlog

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicLoggerFunctionality(t *testing.T) {
	oldTime := time.Now()
	// sleep to avoid failures due to low timestamp resolution
	time.Sleep(time.Millisecond)

	l := New(3)
	require.NotNil(t, l)
	assert.NotNil(t, l.writer)
	assert.Equal(t, 3, l.verbosity)

	assert.Panics(
		t,
		func() { l.Logf(-1, "nope") },
		"writing a negative verbosity panics",
	)

	buf := bytes.NewBuffer(make([]byte, 0, 1024))
	l.SetWriter(buf)

	// log at various verbosities
	l.Logf(0, "test this string")
	l.Logf(5, "this log level is too high and will not log")
	l.Logf(1, "====!%v!====", 12.5)

	l1, _ := buf.ReadString('\n')
	assert.Contains(t, l1, ":")
	assert.Contains(t, l1, ".")
	assert.Contains(t, l1, "test this string")

	l2, _ := buf.ReadString('\n')
	assert.Contains(t, l2, "====!12.5!====")

	require.Contains(t, l2, "\t")
	timestamp := l2[:strings.Index(l2, "\t")]
	assert.Greater(t, len(timestamp), 1)
	parsedTime, err := time.Parse(timeFormat, timestamp)
	require.NoError(t, err)
	assert.True(t, parsedTime.After(oldTime), "parsed time is on or after start time")
}

func TestGlobalLoggerFunctionality(t *testing.T) {
	global = New(3)
	require.NotNil(t, global)

	assert.NotPanics(t, func() { SetVerbosity(0) })
	assert.NotPanics(t, func() { Logf(0, "woooo") })
	assert.NotPanics(t, func() { SetDateFormat("ahaha") })
	assert.NotPanics(t, func() { SetWriter(os.Stdout) })
}

func TestLoggerWriter(t *testing.T) {
	buff := bytes.NewBuffer(make([]byte, 0, 1024))
	l := New(3)
	l.SetWriter(buff)

	t.Run("normal writer", func(t *testing.T) {
		w := l.Writer(0)
		_, err := w.Write([]byte("One"))
		require.NoError(t, err)
		_, err = w.Write([]byte("Two"))
		require.NoError(t, err)
		_, err = w.Write([]byte("Three"))
		require.NoError(t, err)

		results := buff.String()
		assert.Contains(t, results, "One")
		assert.Contains(t, results, "Two")
		assert.Contains(t, results, "Three")
	})

	t.Run("writer of too high verbosity", func(t *testing.T) {
		w2 := l.Writer(1776)
		_, err := w2.Write([]byte("nothing to see here"))
		require.NoError(t, err)

		results := buff.String()
		assert.NotContains(t, results, "nothing")
	})
}
