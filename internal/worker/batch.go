package worker

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/ppiankov/peptidemine/internal/match"
	"github.com/ppiankov/peptidemine/internal/model"
)

// MatchJob matches one sequence and remembers its input position
type MatchJob struct {
	Index    int
	Sequence string
	Matcher  match.SequenceMatcher
}

// Execute executes the match job
func (j *MatchJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &MatchResult{Index: j.Index, Result: model.NoMatch(j.Sequence), Error: err}
	}
	return &MatchResult{Index: j.Index, Result: j.Matcher.Match(j.Sequence)}
}

// MatchResult represents the result of a match job
type MatchResult struct {
	Index  int
	Result model.ReferenceMatchResult
	Error  error
}

// GetError returns the error from the match result
func (r *MatchResult) GetError() error {
	return r.Error
}

// BatchMatcher matches many sequences concurrently
type BatchMatcher struct {
	matcher     match.SequenceMatcher
	concurrency int
	logger      *log.Logger
	progress    *rate.Sometimes
}

// NewBatchMatcher creates a new batch matcher
func NewBatchMatcher(matcher match.SequenceMatcher, concurrency int, logger *log.Logger) *BatchMatcher {
	return &BatchMatcher{
		matcher:     matcher,
		concurrency: concurrency,
		logger:      logger,
		progress:    &rate.Sometimes{Interval: 2 * time.Second},
	}
}

// MatchAll returns one result per input sequence, in input order.
// The output does not depend on the worker count.
func (b *BatchMatcher) MatchAll(ctx context.Context, sequences []string) ([]model.ReferenceMatchResult, error) {
	out := make([]model.ReferenceMatchResult, len(sequences))
	if len(sequences) == 0 {
		return out, nil
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, seq := range sequences {
		if !pool.Submit(&MatchJob{Index: i, Sequence: seq, Matcher: b.matcher}) {
			break
		}
		b.progress.Do(func() {
			b.logger.Info("matching", "submitted", i+1, "total", len(sequences))
		})
	}

	results := pool.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, r := range results {
		mr := r.(*MatchResult)
		if mr.Error != nil {
			return nil, mr.Error
		}
		out[mr.Index] = mr.Result
	}

	return out, nil
}
