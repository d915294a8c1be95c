package framework

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLoggerRecordsFormattedMessages(t *testing.T) {
	var l CapturingLogger
	l.Printf("hello %s", "world")
	l.Printf("count=%d", 3)

	out := l.Output()
	require.Len(t, out, 2)
	assert.Equal(t, "hello world", out[0].Message)
	assert.Equal(t, "count=3", out[1].Message)
	assert.False(t, out[0].Time.IsZero())
}

func TestCapturingLoggerIsSafeForConcurrentWriters(t *testing.T) {
	var l CapturingLogger
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Printf("line")
			}
		}()
	}
	wg.Wait()
	assert.Len(t, l.Output(), 1000)
}

func TestCapturedOutputDumpUsesPrefix(t *testing.T) {
	var l CapturingLogger
	l.Printf("first")
	l.Printf("second")

	var sb strings.Builder
	l.Output().Dump(&sb, "    DEBUG ")

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "    DEBUG ["))
	assert.True(t, strings.HasSuffix(lines[0], "] first"))
	assert.True(t, strings.HasSuffix(lines[1], "] second"))
}
