package smtgo

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/smtgo/internal/feature"
	"github.com/hupe1980/smtgo/model"
)

// Request is a translate request.
type Request struct {
	// Text is the source sentence, tokenized on whitespace.
	Text string
	// Session selects stored weight overrides; model.NoSession uses the
	// engine defaults only.
	Session model.SessionID
	// NBest is the maximum number of hypotheses returned; 0 means 1.
	NBest int
	// Weights are request-scoped overrides applied on top of the session.
	// They may only name registered features.
	Weights model.Weights
	Hints   Hints
}

// Translate decodes req.Text and returns up to max(req.NBest, 1)
// hypotheses ranked by descending score.
//
// Weights are resolved from the feature defaults, then the session's
// overrides, then req.Weights. Scores and breakdowns are recomputed from the
// searcher's candidates, so they are always consistent with the resolved
// weights. Translate either returns a non-empty result or an error.
func (e *Engine) Translate(ctx context.Context, req Request) (res *model.Result, err error) {
	start := e.opts.clock()
	defer func() {
		d := e.opts.clock().Sub(start)
		e.opts.metricsCollector.RecordTranslate(req.NBest, d, err)
		n := 0
		if res != nil {
			n = len(res.Hypotheses)
		}
		e.opts.logger.LogTranslate(ctx, req.NBest, n, d, err)
	}()

	snap, err := e.acquire()
	if err != nil {
		if req.Session != model.NoSession {
			return nil, sessionNotReady(req.Session)
		}
		return nil, err
	}
	defer snap.decRef()

	weights, err := e.resolveWeights(snap, req)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyInput
	}
	if req.NBest < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNBest, req.NBest)
	}
	if err := req.Hints.validate(); err != nil {
		return nil, err
	}

	n := max(req.NBest, 1)

	if err := e.rc.AcquireSearch(ctx); err != nil {
		return nil, err
	}
	candidates, err := snap.searcher.Search(ctx, SearchRequest{
		Text:    req.Text,
		Weights: weights,
		NBest:   n,
		Hints:   req.Hints,
	})
	e.rc.ReleaseSearch()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		return nil, &DecodingFailedError{Reason: "search failed", cause: err}
	}

	return rank(snap, weights, candidates, n)
}

func (e *Engine) resolveWeights(snap *snapshot, req Request) ([]float32, error) {
	var sessionOverrides model.Weights
	if req.Session != model.NoSession {
		w, err := e.sessions.Lookup(req.Session)
		if err != nil {
			return nil, &SessionInvalidError{Session: req.Session}
		}
		sessionOverrides = w
	}

	weights, err := snap.model.Registry.Resolve(sessionOverrides, req.Weights)
	if err != nil {
		return nil, translateError(err)
	}
	return weights, nil
}

// rank validates candidates, rescores them with weights and keeps the best
// n. Equal scores keep the searcher's order.
func rank(snap *snapshot, weights []float32, candidates []Candidate, n int) (*model.Result, error) {
	reg := snap.model.Registry

	hyps := make([]model.Hypothesis, 0, len(candidates))
	for i, c := range candidates {
		scores, err := reg.Split(c.Scores)
		if err != nil {
			return nil, &DecodingFailedError{Reason: fmt.Sprintf("candidate %d", i), cause: err}
		}
		hyps = append(hyps, model.Hypothesis{
			Text:      c.Text,
			Score:     feature.Dot(weights, c.Scores),
			Scores:    scores,
			Alignment: slices.Clone(c.Alignment),
		})
	}
	if len(hyps) == 0 {
		return nil, &DecodingFailedError{Reason: "no hypotheses"}
	}

	slices.SortStableFunc(hyps, func(a, b model.Hypothesis) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(hyps) > n {
		hyps = hyps[:n]
	}
	return &model.Result{Hypotheses: hyps}, nil
}

// TranslateBatch translates each request independently and in parallel,
// bounded by WithMaxConcurrency. results[i] belongs to reqs[i] and is nil
// where that request failed; err is the first failure in request order.
func (e *Engine) TranslateBatch(ctx context.Context, reqs []Request) ([]*model.Result, error) {
	results := make([]*model.Result, len(reqs))
	errs := make([]error, len(reqs))

	var g errgroup.Group
	if e.opts.maxConcurrency > 0 {
		g.SetLimit(int(e.opts.maxConcurrency))
	}
	for i, req := range reqs {
		g.Go(func() error {
			results[i], errs[i] = e.Translate(ctx, req)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			return results, fmt.Errorf("request %d: %w", i, err)
		}
	}
	return results, nil
}
