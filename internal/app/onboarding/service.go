package onboarding

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"cardi/internal/ports"
)

// Result captures non-fatal onboarding outcomes.
type Result struct {
	// DisplayName is the guest name assigned to the account.
	DisplayName string
	// ProfileUpdateErr is set when the profile update failed but onboarding continued.
	ProfileUpdateErr error
}

// Service handles post-auth onboarding for new users: it assigns a guest
// display name and seeds the persistent player record.
type Service struct {
	accounts ports.AccountPort
	identity ports.IdentityPort
	rng      *rand.Rand
}

// NewService constructs an onboarding service with required ports.
// accounts/identity must be non-nil; rng may be nil to use a time-seeded default.
func NewService(accounts ports.AccountPort, identity ports.IdentityPort, rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		accounts: accounts,
		identity: identity,
		rng:      rng,
	}
}

// OnboardNewUser initializes a newly created account. userID identifies the
// account. The profile update is best-effort; the player record is not.
func (s *Service) OnboardNewUser(ctx context.Context, userID string) (Result, error) {
	if s.accounts == nil || s.identity == nil {
		return Result{}, fmt.Errorf("onboarding service not configured")
	}

	result := Result{DisplayName: s.generateGuestName()}
	if err := s.accounts.UpdateProfile(ctx, userID, result.DisplayName, result.DisplayName); err != nil {
		result.ProfileUpdateErr = err
	}

	if _, err := s.identity.GetOrCreatePlayer(ctx, result.DisplayName); err != nil {
		return result, fmt.Errorf("failed to seed player record: %w", err)
	}
	return result, nil
}

func (s *Service) generateGuestName() string {
	adjectives := []string{"Happy", "Shiny", "Brave", "Clever", "Swift", "Calm", "Mighty", "Witty", "Sly", "Wild"}
	nouns := []string{"Ace", "Joker", "Jack", "Queen", "King", "Deuce", "Spade", "Heart", "Diamond", "Club"}

	adj := adjectives[s.rng.Intn(len(adjectives))]
	noun := nouns[s.rng.Intn(len(nouns))]
	num := s.rng.Intn(9000) + 1000

	return fmt.Sprintf("%s%s%d", adj, noun, num)
}
