package shared

import "context"

// UnitOfWork runs fn inside one atomic scope: every repository write made
// through the derived context either all persists or none does. Nested calls
// join the enclosing scope.
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopUnitOfWork executes fn directly without transactional guarantees.
// Intended for tests.
type NopUnitOfWork struct{}

// Execute runs fn with the given context
func (NopUnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
