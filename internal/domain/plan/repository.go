package plan

import "context"

// Repository abstracts plan document persistence. SavePlan replaces the
// single current plan; past plans are not retained.
type Repository interface {
	GetPlan(ctx context.Context, userID int64) (Plan, bool, error)
	SavePlan(ctx context.Context, userID int64, p Plan) error
}
