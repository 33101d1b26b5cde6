// Package tokengate issues and checks the short-lived tokens that open the
// public training timer for one routine day.
package tokengate

import (
	"context"
	"fmt"
	"log"
	"time"

	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenLifetime is fixed; a token is usable until issuance + 12h.
const TokenLifetime = 12 * time.Hour

// Verdict is the outcome of checking a presented token.
type Verdict int

const (
	Valid Verdict = iota
	NotFound
	Expired
)

func (v Verdict) String() string {
	switch v {
	case Valid:
		return "valid"
	case NotFound:
		return "not found"
	case Expired:
		return "expired"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// Evaluate decides a presented token against stored records. A record counts
// only if token, routine and day all match; it is valid while now is at or
// before its expiration.
func Evaluate(stored []domain.AccessToken, token string, routineID primitive.ObjectID, day domain.Weekday, now time.Time) Verdict {
	verdict := NotFound
	for _, t := range stored {
		if t.Token != token || t.RoutineID != routineID || t.Day != day {
			continue
		}
		if !now.After(t.ExpirationDate) {
			return Valid
		}
		verdict = Expired
	}
	return verdict
}

// Gate issues tokens and validates them against the token store.
type Gate struct {
	repo     repository.AccessTokenRepository
	now      func() time.Time
	newToken func() string
}

// NewGate creates a Gate. A nil clock means time.Now.
func NewGate(repo repository.AccessTokenRepository, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{
		repo:     repo,
		now:      now,
		newToken: uuid.NewString,
	}
}

// Issue creates and stores a new token for (routineID, day). Earlier tokens
// for the same pair are left valid.
func (g *Gate) Issue(ctx context.Context, routineID primitive.ObjectID, day domain.Weekday) (*domain.AccessToken, error) {
	if routineID == primitive.NilObjectID {
		return nil, fmt.Errorf("issue token: routine id is required")
	}
	if day.Index() < 0 {
		return nil, fmt.Errorf("issue token: unknown day %q", day)
	}

	now := g.now().UTC()
	token := &domain.AccessToken{
		Token:          g.newToken(),
		RoutineID:      routineID,
		Day:            day,
		ExpirationDate: now.Add(TokenLifetime),
		CreatedAt:      now,
	}
	id, err := g.repo.Create(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("store access token: %w", err)
	}
	token.ID = id
	return token, nil
}

// Check looks up the presented values exactly as they came in the request.
// An unparsable routine id or empty token is NotFound without a store call.
// The error is only set when the store fails.
func (g *Gate) Check(ctx context.Context, token, routineID, day string) (Verdict, error) {
	if token == "" || day == "" {
		return NotFound, nil
	}
	rid, err := primitive.ObjectIDFromHex(routineID)
	// The id must be the exact text embedded in the link, not another casing of it.
	if err != nil || rid.Hex() != routineID {
		return NotFound, nil
	}

	stored, err := g.repo.Find(ctx, token, rid, domain.Weekday(day))
	if err != nil {
		log.Printf("ERROR: Failed to look up access token for routine %s day %s: %v", routineID, day, err)
		return NotFound, err
	}
	return Evaluate(stored, token, rid, domain.Weekday(day), g.now()), nil
}

// Validate reports whether the presented token opens (routineID, day) now.
func (g *Gate) Validate(ctx context.Context, token, routineID, day string) (bool, error) {
	v, err := g.Check(ctx, token, routineID, day)
	if err != nil {
		return false, err
	}
	if v != Valid {
		log.Printf("INFO: Rejected timer token for routine %s day %s: %s", routineID, day, v)
	}
	return v == Valid, nil
}
