// Package archive keeps collected journal batches on disk as
// zstd-compressed JSON-lines segments.
package archive

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/ozgurozkan01/pyLog/internal/journal"
	"github.com/ozgurozkan01/pyLog/internal/model"
)

var ErrNotFound = errors.New("segment not found")

const (
	segmentPrefix = "seg-"
	dataFile      = "records.jsonl.zst"
	metaFile      = "meta.json"
)

type Archive struct {
	dir     string
	maxSize int64         // max total archive size in bytes
	ttl     time.Duration // segment TTL
	now     func() time.Time

	mu  sync.Mutex
	seq int
}

// SegmentMeta describes one archived batch.
type SegmentMeta struct {
	Name           string    `json:"name"`
	Count          int       `json:"count"`
	FirstCursor    string    `json:"first_cursor"`
	LastCursor     string    `json:"last_cursor"`
	FirstTimestamp int64     `json:"first_timestamp"`
	LastTimestamp  int64     `json:"last_timestamp"`
	StoredAt       time.Time `json:"stored_at"`
}

// Segment is a segment on disk with its computed size.
type Segment struct {
	SegmentMeta
	Size int64
	Path string
}

func New(dir string, maxSizeMB int, ttl time.Duration) (*Archive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir: %w", err)
	}
	return &Archive{
		dir:     dir,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

func (a *Archive) segmentDir(name string) string {
	return filepath.Join(a.dir, name)
}

func (a *Archive) nextName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.seq++
	return fmt.Sprintf("%s%d-%04d", segmentPrefix, a.now().UnixNano(), a.seq)
}

// Write stores records as a new segment. Empty batches are ignored.
func (a *Archive) Write(ctx context.Context, records []model.LogRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	name := a.nextName()
	dir := a.segmentDir(name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create segment dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, dataFile))
	if err != nil {
		return fmt.Errorf("create segment: %w", err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("zstd writer: %w", err)
	}
	for _, r := range records {
		line := []byte(r.Raw)
		if len(line) == 0 {
			line = journal.Marshal(r)
		}
		if _, err := enc.Write(append(line, '\n')); err != nil {
			enc.Close()
			f.Close()
			return fmt.Errorf("write segment: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("flush segment: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	first, last := records[0], records[len(records)-1]
	return a.WriteMeta(name, SegmentMeta{
		Name:           name,
		Count:          len(records),
		FirstCursor:    first.Cursor,
		LastCursor:     last.Cursor,
		FirstTimestamp: first.Timestamp,
		LastTimestamp:  last.Timestamp,
		StoredAt:       a.now(),
	})
}

// WriteMeta writes meta.json in the segment's directory.
func (a *Archive) WriteMeta(name string, meta SegmentMeta) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(a.segmentDir(name), metaFile), data, 0o644)
}

func (a *Archive) ReadMeta(name string) (*SegmentMeta, error) {
	data, err := os.ReadFile(filepath.Join(a.segmentDir(name), metaFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var meta SegmentMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// ListSegments returns all segments, oldest first.
func (a *Archive) ListSegments() ([]Segment, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var result []Segment
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), segmentPrefix) {
			continue
		}
		path := a.segmentDir(e.Name())
		seg := Segment{Path: path, Size: dirSize(path)}
		if meta, err := a.ReadMeta(e.Name()); err == nil {
			seg.SegmentMeta = *meta
		} else if info, err := e.Info(); err == nil {
			seg.StoredAt = info.ModTime()
		}
		seg.Name = e.Name()
		result = append(result, seg)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].StoredAt.Equal(result[j].StoredAt) {
			return result[i].Name < result[j].Name
		}
		return result[i].StoredAt.Before(result[j].StoredAt)
	})
	return result, nil
}

// ReadSegment decodes every record of a segment.
func (a *Archive) ReadSegment(name string) ([]model.LogRecord, error) {
	f, err := os.Open(filepath.Join(a.segmentDir(name), dataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer f.Close()

	r, err := NewReader(f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var records []model.LogRecord
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := journal.ParseLine(line)
		if err != nil {
			return records, fmt.Errorf("segment %s: %w", name, err)
		}
		records = append(records, rec)
	}
	return records, sc.Err()
}

func (a *Archive) DeleteSegment(name string) error {
	if err := os.RemoveAll(a.segmentDir(name)); err != nil {
		return fmt.Errorf("delete segment %s: %w", name, err)
	}
	return nil
}

// Evict removes expired segments, then the oldest segments until the
// archive fits within its size cap. It returns how many were removed.
func (a *Archive) Evict() (int, error) {
	segments, err := a.ListSegments()
	if err != nil {
		return 0, err
	}

	removed := 0
	var totalSize int64
	for _, s := range segments {
		totalSize += s.Size
	}

	now := a.now()
	remaining := segments[:0]
	for _, s := range segments {
		if a.ttl > 0 && now.Sub(s.StoredAt) > a.ttl {
			if err := a.DeleteSegment(s.Name); err != nil {
				return removed, err
			}
			totalSize -= s.Size
			removed++
		} else {
			remaining = append(remaining, s)
		}
	}

	// segments are already oldest first
	for _, s := range remaining {
		if a.maxSize <= 0 || totalSize <= a.maxSize {
			break
		}
		if err := a.DeleteSegment(s.Name); err != nil {
			return removed, err
		}
		totalSize -= s.Size
		removed++
	}
	return removed, nil
}

// Janitor runs Evict at every interval until ctx is cancelled.
func (a *Archive) Janitor(ctx context.Context, interval time.Duration, onEvict func(removed int, err error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := a.Evict()
			if onEvict != nil {
				onEvict(n, err)
			}
		}
	}
}

// TotalSize returns total archive size in bytes.
func (a *Archive) TotalSize() int64 {
	return dirSize(a.dir)
}

func dirSize(path string) int64 {
	var size int64
	filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// NewReader returns a reader over r that transparently decompresses zstd
// input. Plain input is passed through.
func NewReader(r io.Reader) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek input: %w", err)
	}
	if !bytes.Equal(head, zstdMagic) {
		return io.NopCloser(br), nil
	}
	dec, err := zstd.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	return dec.IOReadCloser(), nil
}
