package onboarding

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"cardi/internal/ports"
)

type fakeAccountPort struct {
	updateErr error
	updates   []profileCall
}

type profileCall struct {
	userID      string
	username    string
	displayName string
}

func (f *fakeAccountPort) UpdateProfile(ctx context.Context, userID, username, displayName string) error {
	f.updates = append(f.updates, profileCall{userID: userID, username: username, displayName: displayName})
	return f.updateErr
}

type fakeIdentityPort struct {
	createErr error
	created   []string
}

func (f *fakeIdentityPort) GetOrCreatePlayer(ctx context.Context, username string) (*ports.PersistentPlayer, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, username)
	return &ports.PersistentPlayer{ID: "id-" + username, Username: username}, nil
}

func (f *fakeIdentityPort) IncrementWins(ctx context.Context, playerID string) error {
	return nil
}

func TestOnboardNewUser_SeedsPlayerRecord(t *testing.T) {
	accounts := &fakeAccountPort{}
	identity := &fakeIdentityPort{}
	service := NewService(accounts, identity, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if result.ProfileUpdateErr != nil {
		t.Fatalf("Expected no profile update error, got %v", result.ProfileUpdateErr)
	}
	if result.DisplayName == "" {
		t.Fatal("Expected a generated display name")
	}

	if len(identity.created) != 1 || identity.created[0] != result.DisplayName {
		t.Fatalf("Expected one player record for %q, got %v", result.DisplayName, identity.created)
	}
	if len(accounts.updates) != 1 || accounts.updates[0].userID != "user-1" {
		t.Fatalf("Expected one profile update for user-1, got %v", accounts.updates)
	}
	if accounts.updates[0].displayName != result.DisplayName {
		t.Fatalf("Profile display name %q does not match result %q", accounts.updates[0].displayName, result.DisplayName)
	}
}

func TestOnboardNewUser_ProfileErrorIsNonFatal(t *testing.T) {
	accounts := &fakeAccountPort{updateErr: errors.New("profile unavailable")}
	identity := &fakeIdentityPort{}
	service := NewService(accounts, identity, rand.New(rand.NewSource(1)))

	result, err := service.OnboardNewUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("OnboardNewUser returned error: %v", err)
	}
	if result.ProfileUpdateErr == nil {
		t.Fatal("Expected the profile update error to be reported")
	}
	if len(identity.created) != 1 {
		t.Fatalf("Expected the player record anyway, got %v", identity.created)
	}
}

func TestOnboardNewUser_IdentityErrorIsFatal(t *testing.T) {
	identity := &fakeIdentityPort{createErr: errors.New("store down")}
	service := NewService(&fakeAccountPort{}, identity, rand.New(rand.NewSource(1)))

	if _, err := service.OnboardNewUser(context.Background(), "user-1"); err == nil {
		t.Fatal("Expected an error when the player record cannot be created")
	}
}

func TestOnboardNewUser_RequiresPorts(t *testing.T) {
	service := NewService(nil, nil, rand.New(rand.NewSource(1)))
	if _, err := service.OnboardNewUser(context.Background(), "user-1"); err == nil {
		t.Fatal("Expected an error for an unconfigured service")
	}
}
