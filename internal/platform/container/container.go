// Package container wires the concrete collaborators the matching
// pipeline depends on (the record store, the worker pool, the intake
// transport) into a single process-wide dependency container, built once
// at startup and threaded through request/record contexts from there.
package container

import (
	"context"

	"github.com/Gobusters/ectoinject"

	"github.com/fmateoc/entity-matching/internal/intake"
	"github.com/fmateoc/entity-matching/internal/platform/database"
	"github.com/fmateoc/entity-matching/pkg/batch"
	"github.com/fmateoc/entity-matching/pkg/store"
)

// Dependencies are the concrete, already-constructed collaborators a
// running process needs. Build assembles these once; nothing downstream
// constructs its own copy.
type Dependencies struct {
	DB       database.DB
	Store    store.RecordStore
	Pool     *batch.Pool
	Consumer *intake.Consumer
	Producer *intake.Producer
}

// Build registers deps into a root context via ectoinject so handlers and
// workers can resolve them with ectoinject.GetContext instead of each
// thread carrying its own reference.
func Build(ctx context.Context, deps Dependencies) context.Context {
	ctx = ectoinject.AddSingleton[database.DB](ctx, deps.DB)
	ctx = ectoinject.AddSingleton[store.RecordStore](ctx, deps.Store)
	ctx = ectoinject.AddSingleton[*batch.Pool](ctx, deps.Pool)
	ctx = ectoinject.AddSingleton[*intake.Consumer](ctx, deps.Consumer)
	ctx = ectoinject.AddSingleton[*intake.Producer](ctx, deps.Producer)
	return ctx
}
