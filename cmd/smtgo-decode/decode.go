package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/smtgo"
	"github.com/hupe1980/smtgo/blobstore/s3"
	promcollector "github.com/hupe1980/smtgo/metrics/prometheus"
	"github.com/hupe1980/smtgo/model"
)

// batchSize is the number of input lines decoded before output is flushed.
const batchSize = 256

func run(ctx context.Context, cfg config, in io.Reader, out io.Writer) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.Publish != "" {
		ps, ok := store.(*s3.PointerStore)
		if !ok {
			return errors.New("-publish requires a pointer store")
		}
		version, err := ps.Publish(ctx, cfg.Publish)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "published %s as version %d\n", cfg.Publish, version)
		return nil
	}

	logger := smtgo.NewTextLogger(cfg.LogLevel)
	opts := []smtgo.Option{
		smtgo.WithLogger(logger),
		smtgo.WithMaxConcurrency(cfg.Threads),
		smtgo.WithMemoryLimit(cfg.MemoryLimit),
		smtgo.WithLoadRateLimit(cfg.LoadRate),
	}
	if store != nil {
		opts = append(opts, smtgo.WithStore(store))
	}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		collector, err := promcollector.NewCollector(reg)
		if err != nil {
			return err
		}
		opts = append(opts, smtgo.WithMetricsCollector(collector))

		stopMetrics, err := serveMetrics(cfg.MetricsAddr, reg, logger)
		if err != nil {
			return err
		}
		defer stopMetrics()
	}

	engine := smtgo.New(opts...)
	defer engine.Dispose()

	if err := engine.Init(ctx, cfg.Model); err != nil {
		return err
	}

	return decodeStream(ctx, engine, cfg, in, out, logger)
}

// decodeStream translates in line by line. Lines that fail to translate are
// logged and produce no output; their index is still consumed.
func decodeStream(ctx context.Context, engine *smtgo.Engine, cfg config, in io.Reader, out io.Writer, logger *smtgo.Logger) error {
	w := bufio.NewWriter(out)
	defer w.Flush()

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	next := 0
	batch := make([]string, 0, batchSize)
	flush := func() error {
		results, errs := translateBatch(ctx, engine, cfg, batch)
		for i, res := range results {
			idx := next + i
			if errs[i] != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				logger.Warn("sentence not translated", "line", idx, "code", smtgo.Code(errs[i]).String(), "error", errs[i])
				continue
			}
			if err := writeNBest(w, idx, res); err != nil {
				return err
			}
		}
		next += len(batch)
		batch = batch[:0]
		return w.Flush()
	}

	for sc.Scan() {
		batch = append(batch, sc.Text())
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return flush()
}

func translateBatch(ctx context.Context, engine *smtgo.Engine, cfg config, lines []string) ([]*model.Result, []error) {
	results := make([]*model.Result, len(lines))
	errs := make([]error, len(lines))

	var g errgroup.Group
	g.SetLimit(cfg.Threads)
	for i, line := range lines {
		g.Go(func() error {
			tctx := ctx
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				tctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
				defer cancel()
			}
			results[i], errs[i] = engine.Translate(tctx, smtgo.Request{Text: line, NBest: cfg.NBest})
			return nil
		})
	}
	_ = g.Wait()
	return results, errs
}

// writeNBest writes one line per hypothesis:
//
//	idx ||| text ||| Feature0= s1 s2 Feature1= s3 ||| total
func writeNBest(w *bufio.Writer, idx int, res *model.Result) error {
	for _, h := range res.Hypotheses {
		var b strings.Builder
		b.WriteString(strconv.Itoa(idx))
		b.WriteString(" ||| ")
		b.WriteString(h.Text)
		b.WriteString(" |||")
		for _, fs := range h.Scores {
			b.WriteByte(' ')
			b.WriteString(fs.Feature)
			b.WriteByte('=')
			for _, s := range fs.Scores {
				b.WriteByte(' ')
				b.WriteString(formatScore(s))
			}
		}
		b.WriteString(" ||| ")
		b.WriteString(formatScore(h.Score))
		b.WriteByte('\n')

		if _, err := w.WriteString(b.String()); err != nil {
			return err
		}
	}
	return nil
}

func formatScore(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', 6, 32)
}

// serveMetrics exposes reg on addr until the returned stop function is called.
func serveMetrics(addr string, reg *prometheus.Registry, logger *smtgo.Logger) (func(), error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err)
		}
	}()
	logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}, nil
}
