// SPDX-License-Identifier: MIT

package array_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/katalvlaran/structarray/array"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestBuildLogs emits one start and one finish event per build, tagged with
// the same session id.
func TestBuildLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	inner, err := array.For[*point](2)
	require.NoError(t, err)
	outer, err := array.NewNestedBuilder(3, inner, array.WithLogger(zap.New(core)))
	require.NoError(t, err)
	_, err = outer.Build()
	require.NoError(t, err)

	started := logs.FilterMessage("build started").All()
	finished := logs.FilterMessage("build finished").All()
	require.Len(t, started, 1)
	require.Len(t, finished, 1)
	require.Equal(t, started[0].ContextMap()["session"], finished[0].ContextMap()["session"])
	require.Equal(t, uint64(9), finished[0].ContextMap()["slots"])
	require.Equal(t, 1, logs.FilterMessage("filling nested container").Len())

	b, err := array.For[*point](1, array.WithLogger(zap.New(core)))
	require.NoError(t, err)
	_, err = b.SetElementInitializer(array.Ctor0("nil", func() *point { return nil })).Build()
	require.Error(t, err)
	require.Equal(t, 1, logs.FilterMessage("build failed").Len())
}

// TestConcurrentIndependentBuilds runs one builder per goroutine.
func TestConcurrentIndependentBuilds(t *testing.T) {
	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	lens := make([]uint64, workers)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			inner, err := array.For[*point](uint64(id + 1))
			if err != nil {
				errs[id] = err
				return
			}
			outer, err := array.NewNestedBuilder(3, inner)
			if err != nil {
				errs[id] = err
				return
			}
			c, err := outer.Build()
			if err != nil {
				errs[id] = err
				return
			}
			cp, err := array.CopyInstance(c)
			if err != nil {
				errs[id] = fmt.Errorf("copy: %w", err)
				return
			}
			v, err := cp.(*array.Array).At(2, uint64(id))
			if err != nil {
				errs[id] = err
				return
			}
			if _, ok := v.(*point); ok {
				lens[id] = cp.Len()
			}
		}(w)
	}
	wg.Wait()

	for w := 0; w < workers; w++ {
		require.NoError(t, errs[w], "worker %d", w)
		require.Equal(t, uint64(3), lens[w])
	}
}
