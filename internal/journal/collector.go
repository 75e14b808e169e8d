package journal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ozgurozkan01/pyLog/internal/model"
)

var ErrInvalidCursor = errors.New("journalctl rejected the cursor")

// Sink receives batches of collected records.
type Sink interface {
	Write(ctx context.Context, records []model.LogRecord) error
}

// Inserter is a Sink that can tell how many records of a batch were new.
type Inserter interface {
	Insert(ctx context.Context, records []model.LogRecord) (int, error)
}

// Insert writes records to sink and returns how many were new. Sinks that
// cannot tell report the whole batch.
func Insert(ctx context.Context, sink Sink, records []model.LogRecord) (int, error) {
	if ins, ok := sink.(Inserter); ok {
		return ins.Insert(ctx, records)
	}
	if err := sink.Write(ctx, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// MultiSink writes each batch to every sink in order and stops at the
// first failure.
type MultiSink []Sink

func (m MultiSink) Write(ctx context.Context, records []model.LogRecord) error {
	_, err := m.Insert(ctx, records)
	return err
}

// Insert reports the new-record count of the first sink.
func (m MultiSink) Insert(ctx context.Context, records []model.LogRecord) (int, error) {
	inserted := len(records)
	for i, s := range m {
		n, err := Insert(ctx, s, records)
		if err != nil {
			return 0, err
		}
		if i == 0 {
			inserted = n
		}
	}
	return inserted, nil
}

// Runner executes journalctl and returns its standard output.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// RunError carries journalctl's stderr alongside the exit error.
type RunError struct {
	Stderr string
	Err    error
}

func (e *RunError) Error() string {
	if e.Stderr == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Stderr)
}

func (e *RunError) Unwrap() error { return e.Err }

type ExecRunner struct {
	Path string
}

func (r ExecRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	path := r.Path
	if path == "" {
		path = "journalctl"
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.Bytes(), &RunError{Stderr: strings.TrimSpace(stderr.String()), Err: err}
	}
	return stdout.Bytes(), nil
}

type CollectorOptions struct {
	Interval time.Duration
	Timeout  time.Duration
	// Since is passed to --since when there is no cursor to resume from.
	Since string
}

// Collector periodically pulls new journal entries and hands them to a sink.
type Collector struct {
	runner Runner
	sink   Sink
	opts   CollectorOptions
	logger *zap.Logger

	mu     sync.Mutex
	cursor string
}

func NewCollector(runner Runner, sink Sink, opts CollectorOptions, logger *zap.Logger) *Collector {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Since == "" {
		opts.Since = "5 minutes ago"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{runner: runner, sink: sink, opts: opts, logger: logger}
}

func (c *Collector) Cursor() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// SetCursor resumes collection after the given cursor.
func (c *Collector) SetCursor(cursor string) {
	c.mu.Lock()
	c.cursor = cursor
	c.mu.Unlock()
}

func (c *Collector) args() []string {
	args := []string{"--no-pager", "-o", "json"}
	if cur := c.Cursor(); cur != "" {
		return append(args, "--after-cursor="+cur)
	}
	return append(args, "--since="+c.opts.Since)
}

// Poll runs journalctl once and forwards the new entries. It returns the
// number of records written. A rejected cursor is cleared so the next poll
// falls back to --since.
func (c *Collector) Poll(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	hadCursor := c.Cursor() != ""
	out, err := c.runner.Run(ctx, c.args()...)
	if err != nil {
		var runErr *RunError
		if hadCursor && errors.As(err, &runErr) && strings.Contains(strings.ToLower(runErr.Stderr), "cursor") {
			c.SetCursor("")
			return 0, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
		}
		return 0, fmt.Errorf("run journalctl: %w", err)
	}

	records := c.parse(out)
	if len(records) == 0 {
		return 0, nil
	}
	if err := c.sink.Write(ctx, records); err != nil {
		return 0, fmt.Errorf("write batch: %w", err)
	}
	if last := records[len(records)-1].Cursor; last != "" {
		c.SetCursor(last)
	}
	return len(records), nil
}

func (c *Collector) parse(out []byte) []model.LogRecord {
	var records []model.LogRecord
	sc := bufio.NewScanner(bytes.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := ParseLine(line)
		if err != nil {
			c.logger.Warn("skipping malformed journal line", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records
}

// Run polls until ctx is cancelled. Poll failures are logged and do not
// stop the loop.
func (c *Collector) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.opts.Interval)
	defer ticker.Stop()

	for {
		n, err := c.Poll(ctx)
		switch {
		case errors.Is(err, ErrInvalidCursor):
			c.logger.Warn("cursor reset, falling back to --since", zap.String("since", c.opts.Since), zap.Error(err))
		case err != nil && ctx.Err() == nil:
			c.logger.Error("journal poll failed", zap.Error(err))
		case n > 0:
			c.logger.Debug("collected journal entries", zap.Int("count", n), zap.String("cursor", c.Cursor()))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
