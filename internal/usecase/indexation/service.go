package indexation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/piecedex/internal/domain/batch"
	domidx "github.com/kailas-cloud/piecedex/internal/domain/indexation"
	domtp "github.com/kailas-cloud/piecedex/internal/domain/textpiece"
	"github.com/kailas-cloud/piecedex/internal/logger"
	"github.com/kailas-cloud/piecedex/internal/metrics"
)

// Service rebuilds collection indexes: clear everything, then write the
// given pieces. Runs on the same collection never overlap.
type Service struct {
	colls  Collections
	pieces Pieces
	docs   Documents
	locks  *keyedLocks
	now    func() time.Time
}

// New creates an indexation service.
func New(colls Collections, pieces Pieces, docs Documents) *Service {
	return &Service{
		colls:  colls,
		pieces: pieces,
		docs:   docs,
		locks:  newKeyedLocks(),
		now:    time.Now,
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// IndexDocument reindexes the collection of a document with all its pieces.
// The collection id is the document id.
func (s *Service) IndexDocument(ctx context.Context, documentID int64) (domidx.Report, error) {
	unlock, err := s.locks.lock(ctx, documentID)
	if err != nil {
		return domidx.Report{}, fmt.Errorf("wait for collection %d: %w", documentID, err)
	}
	defer unlock()

	doc, err := s.docs.Get(ctx, documentID)
	if err != nil {
		return domidx.Report{}, fmt.Errorf("get document %d: %w", documentID, err)
	}
	items, err := s.pieces.ListByDocumentName(ctx, doc.Name())
	if err != nil {
		return domidx.Report{}, fmt.Errorf("list pieces of document %d: %w", documentID, err)
	}
	return s.run(ctx, documentID, items)
}

// Reindex replaces the content of a collection with items.
func (s *Service) Reindex(ctx context.Context, collectionID int64, items []domtp.TextPiece) (domidx.Report, error) {
	unlock, err := s.locks.lock(ctx, collectionID)
	if err != nil {
		return domidx.Report{}, fmt.Errorf("wait for collection %d: %w", collectionID, err)
	}
	defer unlock()

	return s.run(ctx, collectionID, items)
}

func (s *Service) run(ctx context.Context, collectionID int64, items []domtp.TextPiece) (domidx.Report, error) {
	run := domidx.NewRun(uuid.NewString(), collectionID, s.now())
	ctx = logger.With(ctx, zap.String("run_id", run.ID()), zap.Int64("collection_id", collectionID))
	log := logger.FromContext(ctx)
	log.Info("Reindex started", zap.Int("items", len(items)))

	if err := s.colls.Ensure(ctx, collectionID); err != nil {
		return s.fail(ctx, run, 0, err)
	}

	if err := run.Advance(domidx.StateClearing); err != nil {
		return s.fail(ctx, run, 0, err)
	}
	cleared, err := s.colls.Clear(ctx, collectionID)
	if err != nil {
		failed := countFailed(err)
		observeBulk("delete", failed, err)
		return s.fail(ctx, run, failed, err)
	}
	observeBulk("delete", cleared, nil)
	run.Cleared(cleared)

	if err := run.Advance(domidx.StatePopulating); err != nil {
		return s.fail(ctx, run, 0, err)
	}
	populated, err := s.colls.Populate(ctx, collectionID, items)
	if err != nil {
		failed := countFailed(err)
		observeBulk("index", failed, err)
		if ok := len(items) - failed; failed > 0 && ok > 0 {
			observeBulk("index", ok, nil)
		}
		return s.fail(ctx, run, failed, err)
	}
	observeBulk("index", populated, nil)
	run.Populated(populated)

	// Store flags follow the engine: they are written only once the bulk
	// upsert is confirmed.
	if err := s.pieces.MarkIndexed(ctx, pieceIDs(items)); err != nil {
		return s.fail(ctx, run, 0, err)
	}

	if err := run.Finish(s.now()); err != nil {
		return s.fail(ctx, run, 0, err)
	}
	rep := run.Report()
	metrics.ReindexRunsTotal.WithLabelValues("ok", string(rep.State)).Inc()
	metrics.ReindexDuration.WithLabelValues("ok").Observe(rep.Duration.Seconds())
	log.Info("Reindex finished",
		zap.Int("cleared", rep.Cleared),
		zap.Int("populated", rep.Populated),
		zap.Duration("duration", rep.Duration),
	)
	return rep, nil
}

func (s *Service) fail(ctx context.Context, run *domidx.Run, failed int, cause error) (domidx.Report, error) {
	step := run.State()
	err := run.Fail(s.now(), failed, cause)
	if errors.Is(err, domidx.ErrInvalidTransition) {
		err = errors.Join(cause, err)
	}
	rep := run.Report()
	metrics.ReindexRunsTotal.WithLabelValues("error", string(step)).Inc()
	metrics.ReindexDuration.WithLabelValues("error").Observe(rep.Duration.Seconds())
	logger.FromContext(ctx).Error("Reindex failed",
		zap.String("step", string(step)),
		zap.Int("failed_items", failed),
		zap.Error(cause),
	)
	return rep, err
}

func countFailed(err error) int {
	var fe *batch.FailureError
	if errors.As(err, &fe) {
		return len(fe.Failed)
	}
	return 0
}

func observeBulk(action string, n int, err error) {
	if n == 0 {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.BulkItemsTotal.WithLabelValues(action, status).Add(float64(n))
}

func pieceIDs(items []domtp.TextPiece) []int64 {
	ids := make([]int64, 0, len(items))
	for _, tp := range items {
		ids = append(ids, tp.ID())
	}
	return ids
}
