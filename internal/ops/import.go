package ops

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/ozgurozkan01/pyLog/internal/archive"
	"github.com/ozgurozkan01/pyLog/internal/journal"
	"github.com/ozgurozkan01/pyLog/internal/model"
)

// DefaultBatchSize is the number of entries written per transaction.
const DefaultBatchSize = 1000

type ImportResult struct {
	Lines int
	// Written counts records handed to the sink; Inserted counts the ones
	// the sink did not already hold.
	Written  int
	Inserted int
	Failed   int
	Errors   []error
}

// maxKeptErrors bounds ImportResult.Errors; Failed still counts every line.
const maxKeptErrors = 20

// ImportJSONL streams journal JSON lines from r (plain or zstd-compressed)
// into sink in batches. Unparsable lines are counted and skipped.
// onProgress is called after every flushed batch with the running totals.
func ImportJSONL(ctx context.Context, r io.Reader, sink journal.Sink, batchSize int, logger *zap.Logger, onProgress func(res ImportResult)) (*ImportResult, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	in, err := archive.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	result := &ImportResult{}
	batch := make([]model.LogRecord, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := journal.Insert(ctx, sink, batch)
		if err != nil {
			return fmt.Errorf("write batch ending at line %d: %w", result.Lines, err)
		}
		result.Written += len(batch)
		result.Inserted += n
		batch = batch[:0]
		if onProgress != nil {
			onProgress(*result)
		}
		return nil
	}

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for sc.Scan() {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		result.Lines++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		rec, err := journal.ParseLine(line)
		if err != nil {
			result.Failed++
			if len(result.Errors) < maxKeptErrors {
				result.Errors = append(result.Errors, fmt.Errorf("line %d: %w", result.Lines, err))
			}
			logger.Debug("skipping unparsable line", zap.Int("line", result.Lines), zap.Error(err))
			continue
		}
		batch = append(batch, rec)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return result, err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return result, fmt.Errorf("read input: %w", err)
	}
	if err := flush(); err != nil {
		return result, err
	}
	return result, nil
}
