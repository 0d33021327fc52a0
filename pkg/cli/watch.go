package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/funvibe/ornlift/internal/session"
)

// debounceWindow coalesces the burst of events editors emit on save.
const debounceWindow = 200 * time.Millisecond

// watchPlan re-runs the plan whenever its file changes. The session (and
// with it the global cache) survives across runs, so unchanged terms hit
// the cache on re-execution.
func watchPlan(opts options, sess *session.Session, stdout, stderr io.Writer) int {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer watcher.Close()

	// Watch the directory: editors often replace the file on save, which
	// drops a watch registered on the file itself.
	dir := filepath.Dir(opts.planPath)
	if err := watcher.Add(dir); err != nil {
		fmt.Fprintln(stderr, "error: watching", dir+":", err)
		return 1
	}

	executeOnce(opts, sess, stdout, stderr)
	fmt.Fprintf(stderr, "watching %s (ctrl-c to stop)\n", opts.planPath)

	target, _ := filepath.Abs(opts.planPath)
	var pending *time.Timer
	rerun := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return 0
			}
			abs, _ := filepath.Abs(event.Name)
			if abs != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounceWindow, func() {
				select {
				case rerun <- struct{}{}:
				default:
				}
			})
		case <-rerun:
			executeOnce(opts, sess, stdout, stderr)
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return 0
			}
			fmt.Fprintln(stderr, "warning: watcher:", watchErr)
		}
	}
}
