// Package s3 provides Amazon S3 implementations of blobstore.Store.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	client := s3.NewFromConfig(cfg)
//
//	store := s3store.NewStore(client, "models", "en-it/")
//	err = engine.Init(ctx, "model.json")
//
// # Model Pointers
//
// PointerStore keeps the CURRENT pointer in DynamoDB instead of S3, so a
// deployment can switch the served model version with a single conditional
// write:
//
//	ps := s3store.NewPointerStore(store, dynamodb.NewFromConfig(cfg), "smtgo-models", "s3://models/en-it/")
//	err = ps.Publish(ctx, "v7/model.json")
//
// # Features
//
//   - Range reads for partial fetches
//   - Parallel whole-object downloads through the transfer manager
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
