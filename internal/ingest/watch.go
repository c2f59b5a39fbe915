package ingest

import (
	"context"
	"io"
	"time"

	"github.com/nxadm/tail"
)

// Watch follows path and signals on Changes once appended lines have been
// quiet for debounce. Existing content is skipped.
func Watch(ctx context.Context, path string, debounce time.Duration) (<-chan struct{}, <-chan error) {
	changes := make(chan struct{}, 1)
	errs := make(chan error, 1)

	go func() {
		defer close(changes)
		defer close(errs)

		t, err := tail.TailFile(path, tail.Config{
			Follow:    true,
			ReOpen:    true,
			MustExist: true,
			Logger:    tail.DiscardingLogger,
			Poll:      true,
			Location:  &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		})
		if err != nil {
			errs <- &IOError{Path: path, Err: err}
			return
		}
		defer t.Cleanup()

		timer := time.NewTimer(debounce)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false
		for {
			select {
			case <-ctx.Done():
				_ = t.Stop()
				return
			case l, ok := <-t.Lines:
				if !ok {
					return
				}
				if l.Err != nil {
					select {
					case errs <- &IOError{Path: path, Err: l.Err}:
					default:
					}
					continue
				}
				if pending && !timer.Stop() {
					<-timer.C
				}
				timer.Reset(debounce)
				pending = true
			case <-timer.C:
				pending = false
				select {
				case changes <- struct{}{}:
				default:
				}
			}
		}
	}()

	return changes, errs
}
