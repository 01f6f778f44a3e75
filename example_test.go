package smtgo_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/smtgo"
	"github.com/hupe1980/smtgo/blobstore"
	"github.com/hupe1980/smtgo/model"
	"github.com/hupe1980/smtgo/testutil"
)

func Example() {
	ctx := context.Background()

	store := blobstore.NewMemoryStore()
	name, err := testutil.WriteToyModel(ctx, store, "toy")
	if err != nil {
		log.Fatal(err)
	}

	e := smtgo.New(smtgo.WithStore(store))
	if err := e.Init(ctx, name); err != nil {
		log.Fatal(err)
	}
	defer e.Dispose()

	res, err := e.Translate(ctx, smtgo.Request{Text: "das haus ist klein"})
	if err != nil {
		log.Fatal(err)
	}
	best, _ := res.Best()
	fmt.Println(best.Text)
	// Output: the house is small
}

func ExampleEngine_CreateSession() {
	ctx := context.Background()

	store := blobstore.NewMemoryStore()
	name, _ := testutil.WriteToyModel(ctx, store, "toy")

	e := smtgo.New(smtgo.WithStore(store))
	if err := e.Init(ctx, name); err != nil {
		log.Fatal(err)
	}
	defer e.Dispose()

	id, err := e.CreateSession(model.Weights{"LM0": {0.9}})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("sessions:", e.SessionCount())

	if err := e.DestroySession(id); err != nil {
		log.Fatal(err)
	}
	err = e.DestroySession(id)
	fmt.Println(smtgo.Code(err))
	// Output:
	// sessions: 1
	// session_invalid
}

func ExampleEngine_ListFeatures() {
	ctx := context.Background()

	store := blobstore.NewMemoryStore()
	name, _ := testutil.WriteToyModel(ctx, store, "toy")

	e := smtgo.New(smtgo.WithStore(store))
	if err := e.Init(ctx, name); err != nil {
		log.Fatal(err)
	}
	defer e.Dispose()

	features, _ := e.ListFeatures()
	for _, f := range features {
		fmt.Println(f.Name, f.Arity)
	}
	// Output:
	// TranslationModel0 4
	// LM0 1
	// Distortion0 1
	// WordPenalty0 1
	// PhrasePenalty0 1
	// UnknownWordPenalty0 1
}
