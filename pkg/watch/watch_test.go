package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arthur-debert/deplink/pkg/errors"
	"github.com/arthur-debert/deplink/pkg/ignore"
	"github.com/arthur-debert/deplink/pkg/testutil"
	"github.com/arthur-debert/deplink/pkg/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 3 * time.Second

func startWatch(t *testing.T, root string, filter watch.Filter) <-chan watch.Notification {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	ch, err := watch.New(watch.Options{Debounce: 20 * time.Millisecond}).Watch(ctx, root, filter)
	require.NoError(t, err)
	return ch
}

// collect gathers notified paths until want is seen or the deadline passes
func collect(t *testing.T, ch <-chan watch.Notification, want string) []string {
	t.Helper()
	var seen []string
	deadline := time.After(waitFor)
	for {
		select {
		case n, ok := <-ch:
			if !ok {
				return seen
			}
			seen = append(seen, n.Paths...)
			for _, p := range n.Paths {
				if p == want {
					return seen
				}
			}
		case <-deadline:
			return seen
		}
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestWatchReportsChanges(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"lib/": ""})
	ch := startWatch(t, root, nil)

	target := filepath.Join(root, "lib", "index.js")
	write(t, target, "module.exports = 1")

	assert.Contains(t, collect(t, ch, target), target)
}

func TestWatchFollowsNewDirectories(t *testing.T) {
	root := t.TempDir()
	ch := startWatch(t, root, nil)

	dir := filepath.Join(root, "src")
	require.NoError(t, os.Mkdir(dir, 0755))
	collect(t, ch, dir)

	// give the watcher a moment to register the new directory
	time.Sleep(50 * time.Millisecond)
	target := filepath.Join(dir, "a.js")
	write(t, target, "a")

	assert.Contains(t, collect(t, ch, target), target)
}

func TestWatchSkipsExcludedPaths(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"node_modules/dep/": ""})
	pred := ignore.Compile(root, ignore.RuleSet{Defaults: ignore.DefaultPatterns})
	ch := startWatch(t, root, pred)

	write(t, filepath.Join(root, "node_modules", "dep", "index.js"), "x")
	write(t, filepath.Join(root, ".DS_Store"), "x")
	marker := filepath.Join(root, "index.js")
	// let the excluded writes settle into their own window first
	time.Sleep(100 * time.Millisecond)
	write(t, marker, "x")

	seen := collect(t, ch, marker)
	assert.Contains(t, seen, marker)
	for _, p := range seen {
		assert.False(t, strings.Contains(p, "node_modules"), "excluded path notified: %s", p)
		assert.NotEqual(t, filepath.Join(root, ".DS_Store"), p)
	}
}

func TestWatchCoalescesBursts(t *testing.T) {
	root := t.TempDir()
	ch := startWatch(t, root, nil)

	var last string
	for _, name := range []string{"a.js", "b.js", "c.js", "d.js"} {
		last = filepath.Join(root, name)
		write(t, last, name)
	}

	seen := collect(t, ch, last)
	for _, name := range []string{"a.js", "b.js", "c.js", "d.js"} {
		assert.Contains(t, seen, filepath.Join(root, name))
	}
}

func TestWatchClosesOnCancel(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := watch.New(watch.Options{}).Watch(ctx, root, nil)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(waitFor):
		t.Fatal("notification channel was not closed after cancel")
	}
}

func TestWatchRejectsMissingRoot(t *testing.T) {
	_, err := watch.New(watch.Options{}).Watch(context.Background(), filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrWatchFailed))
}

func TestWatchRejectsFileRoot(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file")
	write(t, file, "x")

	_, err := watch.New(watch.Options{}).Watch(context.Background(), file, nil)
	assert.True(t, errors.IsErrorCode(err, errors.ErrWatchFailed))
}
