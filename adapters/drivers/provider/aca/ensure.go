package aca

import (
	"context"
	"fmt"

	"github.com/yaegashi/imgappops/internal/logging"
)

// ensureResource is the probe-then-branch capability shared by every
// resource kind: probe for an existing resource, reuse it when present,
// create it when absent. Nothing is ever deleted. Returns the resource and
// whether a create call was issued.
func ensureResource[T any](ctx context.Context, kind, name string,
	probe func(context.Context) (T, bool, error),
	create func(context.Context) (T, error)) (T, bool, error) {
	var zero T
	log := logging.FromContext(ctx).With("kind", kind, "name", name)

	v, found, err := probe(ctx)
	if err != nil {
		log.Warn(ctx, "ACA:Ensure/efail", "err", azureShorterErrorString(err))
		return zero, false, fmt.Errorf("probe %s %q: %w", kind, name, err)
	}
	if found {
		log.Info(ctx, "ACA:Ensure/reused")
		return v, false, nil
	}

	v, err = create(ctx)
	if err != nil {
		log.Warn(ctx, "ACA:Ensure/efail", "err", azureShorterErrorString(err))
		return zero, false, fmt.Errorf("create %s %q: %w", kind, name, err)
	}
	log.Info(ctx, "ACA:Ensure/created")
	return v, true, nil
}
