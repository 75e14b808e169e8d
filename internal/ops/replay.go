package ops

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ozgurozkan01/pyLog/internal/archive"
	"github.com/ozgurozkan01/pyLog/internal/journal"
)

// ReplayArchive writes every archived segment into sink, oldest first.
// A segment that cannot be fully decoded still has its readable records
// written; the failure is counted and kept in the result.
func ReplayArchive(ctx context.Context, arc *archive.Archive, sink journal.Sink, logger *zap.Logger, onProgress func(res ImportResult)) (*ImportResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	segments, err := arc.ListSegments()
	if err != nil {
		return nil, fmt.Errorf("list segments: %w", err)
	}

	result := &ImportResult{}
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		records, readErr := arc.ReadSegment(seg.Name)
		if readErr != nil {
			result.Failed++
			if len(result.Errors) < maxKeptErrors {
				result.Errors = append(result.Errors, readErr)
			}
			logger.Warn("segment partially unreadable", zap.String("segment", seg.Name), zap.Error(readErr))
		}
		result.Lines += len(records)
		if len(records) == 0 {
			continue
		}

		n, err := journal.Insert(ctx, sink, records)
		if err != nil {
			return result, fmt.Errorf("replay segment %s: %w", seg.Name, err)
		}
		result.Written += len(records)
		result.Inserted += n
		if onProgress != nil {
			onProgress(*result)
		}
	}
	return result, nil
}
