package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/failrelay/internal/activitylog/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRecorder(t *testing.T) domain.Recorder {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return New(Params{Log: zap.NewNop(), GenID: node})
}

func TestAppendEvictsOldest(t *testing.T) {
	rec := newRecorder(t)

	for i := 0; i < Capacity+1; i++ {
		rec.Append(domain.SeverityInfo, fmt.Sprintf("entry %d", i))
	}

	require.Equal(t, Capacity, rec.Total())

	entries := rec.Recent(Capacity)
	require.Len(t, entries, Capacity)
	require.Equal(t, fmt.Sprintf("entry %d", Capacity), entries[0].Message)
	for _, entry := range entries {
		require.NotEqual(t, "entry 0", entry.Message)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	rec := newRecorder(t)
	rec.Append(domain.SeverityInfo, "first")
	rec.Append(domain.SeverityWarn, "second")
	rec.Append(domain.SeverityError, "third")

	entries := rec.Recent(2)
	require.Len(t, entries, 2)
	require.Equal(t, "third", entries[0].Message)
	require.Equal(t, "second", entries[1].Message)

	all := rec.Recent(0)
	require.Len(t, all, 3)
	require.Equal(t, "third", all[0].Message)
}

func TestLast(t *testing.T) {
	rec := newRecorder(t)

	_, ok := rec.Last()
	require.False(t, ok)

	rec.Append(domain.SeverityInfo, "only")
	last, ok := rec.Last()
	require.True(t, ok)
	require.Equal(t, "only", last.Message)
	require.Equal(t, domain.SeverityInfo, last.Severity)
	require.False(t, last.Timestamp.IsZero())
}

func TestConcurrentAppend(t *testing.T) {
	rec := newRecorder(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				rec.Append(domain.SeverityInfo, fmt.Sprintf("worker %d entry %d", worker, j))
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, Capacity, rec.Total())
}
