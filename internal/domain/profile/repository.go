package profile

import "context"

// Repository abstracts profile document persistence.
type Repository interface {
	GetProfile(ctx context.Context, userID int64) (Profile, bool, error)
	// SaveProfile stores the document and marks the user as onboarded.
	SaveProfile(ctx context.Context, userID int64, p Profile) error
}
