package io

import (
	"bufio"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/phil-mansfield/gasdiff"
)

// SnapshotHeader starts every block of a snapshot file.
const SnapshotHeader = "TIEMPO"

type snapshot struct {
	step int
	ps   []gasdiff.Particle
}

// SnapshotWriter appends particle snapshots to a file from a background
// goroutine so that the simulation never waits on the disk unless the queue
// is full. Write failures are reported by the next call to Write or by Close.
type SnapshotWriter struct {
	name  string
	f     *os.File
	w     *bufio.Writer
	queue chan snapshot
	done  chan struct{}

	// sendMu guards closed and sends on queue. mu guards err and is also
	// taken by the writing goroutine.
	sendMu sync.Mutex
	closed bool
	mu     sync.Mutex
	err    error
}

// NewSnapshotWriter opens fname for appending. depth is the number of
// snapshots which may be queued.
func NewSnapshotWriter(fname string, depth int) (*SnapshotWriter, error) {
	f, err := os.OpenFile(fname, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	sw := &SnapshotWriter{
		name:  fname,
		f:     f,
		w:     bufio.NewWriterSize(f, 1<<16),
		queue: make(chan snapshot, depth),
		done:  make(chan struct{}),
	}
	go sw.loop()
	return sw, nil
}

func (sw *SnapshotWriter) loop() {
	defer close(sw.done)
	var buf []byte
	for snap := range sw.queue {
		buf = AppendSnapshot(buf[:0], snap.step, snap.ps)
		if _, err := sw.w.Write(buf); err != nil {
			sw.setErr(errors.Wrapf(err, "step %d of '%s'", snap.step, sw.name))
		}
	}
	if err := sw.w.Flush(); err != nil {
		sw.setErr(errors.Wrapf(err, "flushing '%s'", sw.name))
	}
}

func (sw *SnapshotWriter) setErr(err error) {
	sw.mu.Lock()
	if sw.err == nil {
		sw.err = err
	}
	sw.mu.Unlock()
}

func (sw *SnapshotWriter) takeErr() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	err := sw.err
	sw.err = nil
	return err
}

// Write queues a snapshot. ps must not be modified afterwards. The returned
// error belongs to an earlier snapshot; the current one is queued anyway.
// Write and Close may be called from different goroutines.
func (sw *SnapshotWriter) Write(step int, ps []gasdiff.Particle) error {
	sw.sendMu.Lock()
	defer sw.sendMu.Unlock()
	if sw.closed {
		return errors.Errorf("SnapshotWriter for '%s' is closed.", sw.name)
	}

	err := sw.takeErr()
	sw.queue <- snapshot{step, ps}
	return err
}

// Close writes all queued snapshots and closes the file.
func (sw *SnapshotWriter) Close() error {
	sw.sendMu.Lock()
	if sw.closed {
		sw.sendMu.Unlock()
		return nil
	}
	sw.closed = true
	close(sw.queue)
	sw.sendMu.Unlock()

	<-sw.done

	err := sw.takeErr()
	if cerr := sw.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// AppendSnapshot appends the text block for one step to buf: a header line,
// one "x y vx vy" line per particle and a blank line.
func AppendSnapshot(buf []byte, step int, ps []gasdiff.Particle) []byte {
	buf = append(buf, SnapshotHeader...)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(step), 10)
	buf = append(buf, '\n')
	for i := range ps {
		buf = appendParticle(buf, &ps[i])
	}
	return append(buf, '\n')
}
