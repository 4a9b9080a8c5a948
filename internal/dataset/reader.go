package dataset

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mkrastev/veridict/internal/models"
)

// InputRecord is one parsed line of a JSONL batch file. Error is set when
// the line did not decode; the line number is always populated so bad lines
// can be reported precisely.
type InputRecord struct {
	Request    models.JudgementRequest
	LineNumber int
	Error      error
}

// Reader streams judgement requests from a JSONL source line by line, so
// arbitrarily large batch files never need to fit in memory.
type Reader struct {
	source io.Reader
	logger *zerolog.Logger
}

func NewReader(source io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		source: source,
		logger: logger,
	}
}

// ReadAll emits one record per non-blank line. Malformed lines are emitted
// with Error set rather than aborting the stream. The channel closes at EOF
// or when ctx is cancelled.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	ch := make(chan InputRecord)

	go func() {
		defer close(ch)

		scanner := bufio.NewScanner(r.source)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var request models.JudgementRequest
			record := InputRecord{LineNumber: lineNumber}
			if err := json.Unmarshal([]byte(line), &request); err != nil {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, err)
				r.logger.Warn().
					Int("line", lineNumber).
					Err(err).
					Msg("skipping malformed input line")
			} else {
				record.Request = request
			}

			select {
			case ch <- record:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			select {
			case ch <- InputRecord{LineNumber: lineNumber + 1, Error: err}:
			case <-ctx.Done():
			}
		}
	}()

	return ch
}
