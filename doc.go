// Package smtgo provides an embeddable phrase-based statistical machine
// translation engine.
//
// An Engine loads a trained model (phrase table, language model and
// feature weights) described by a JSON manifest, and translates sentences
// with a stack decoder. Callers can tune the log-linear feature weights per
// request or per session without touching the loaded model.
//
// # Quick Start
//
//	ctx := context.Background()
//	e := smtgo.New(smtgo.WithLogLevel(slog.LevelInfo))
//	if err := e.Init(ctx, "./model/model.json"); err != nil {
//	    log.Fatal(err)
//	}
//	defer e.Dispose()
//
//	res, _ := e.Translate(ctx, smtgo.Request{Text: "das haus ist klein", NBest: 5})
//	for _, h := range res.Hypotheses {
//	    fmt.Println(h.Score, h.Text)
//	}
//
// # Models in object storage
//
// Init resolves paths against a blobstore.Store, so models can be served
// from S3 or MinIO:
//
//	store := s3.NewStore(s3.NewFromConfig(cfg), "models", "en-it/")
//	e := smtgo.New(smtgo.WithStore(store))
//	_ = e.Init(ctx, "CURRENT")
//
// A CURRENT blob names the manifest to load; s3.PointerStore serves it from
// a DynamoDB table instead.
//
// # Weight layering
//
// Weights are resolved per request as engine defaults, then session
// overrides, then request overrides. Each layer replaces whole per-feature
// vectors:
//
//	id, _ := e.CreateSession(model.Weights{"LM0": {0.8}})
//	res, _ := e.Translate(ctx, smtgo.Request{
//	    Text:    "das haus ist klein",
//	    Session: id,
//	    Weights: model.Weights{"WordPenalty0": {-0.5}},
//	})
//
// # Lifecycle
//
// An Engine moves from Uninitialized to Ready on a successful Init and to
// Disposed on Dispose. Dispose invalidates all sessions; the model itself is
// released when the last in-flight translation returns.
//
// # Errors
//
// Errors match the package sentinels with errors.Is, and typed errors carry
// context via errors.As. Code maps any returned error to a stable ErrorCode.
package smtgo
