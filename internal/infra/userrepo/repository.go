package userrepo

import (
	"github.com/nivkeren/wellness-coach/internal/domain/auth"
	"github.com/nivkeren/wellness-coach/internal/domain/plan"
	"github.com/nivkeren/wellness-coach/internal/domain/profile"
)

// Repository combines the account, profile, and plan persistence interfaces.
// A user's profile and plan documents live next to the account row, so one
// backend serves all three domains.
type Repository interface {
	auth.Repository
	profile.Repository
	plan.Repository
}

var (
	_ Repository = (*MemoryRepository)(nil)
	_ Repository = (*PostgresRepository)(nil)
)
