package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"verideal_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ScyllaUserStore keeps users, the email lookup table and profiles.
type ScyllaUserStore struct {
	db SessionProvider
}

func NewScyllaUserStore(db SessionProvider) *ScyllaUserStore {
	return &ScyllaUserStore{db: db}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser claims the email first so two sign-ups cannot share it.
func (s *ScyllaUserStore) CreateUser(ctx context.Context, user models.User) error {
	session, err := s.db.Session()
	if err != nil {
		return err
	}

	email := normalizeEmail(user.Email)
	applied, err := session.Query(`INSERT INTO users_by_email (email, user_id) VALUES (?, ?) IF NOT EXISTS`,
		email, user.ID).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("claim email: %w", err)
	}
	if !applied {
		return models.ErrDuplicateEntry
	}

	err = session.Query(`INSERT INTO users (user_id, email, password, provider, provider_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.ID, email, user.Password, user.Provider, user.ProviderID, user.CreatedAt).
		WithContext(ctx).Exec()
	if err != nil {
		// Release the email so the address is not locked out.
		_, delErr := session.Query(`DELETE FROM users_by_email WHERE email = ? IF user_id = ?`, email, user.ID).
			MapScanCAS(map[string]interface{}{})
		if delErr != nil {
			return fmt.Errorf("insert user: %w (release email: %v)", err, delErr)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *ScyllaUserStore) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	session, err := s.db.Session()
	if err != nil {
		return models.User{}, err
	}

	var userID string
	err = session.Query(`SELECT user_id FROM users_by_email WHERE email = ?`, normalizeEmail(email)).
		WithContext(ctx).Scan(&userID)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("lookup email: %w", err)
	}
	return s.GetUserByID(ctx, userID)
}

func (s *ScyllaUserStore) GetUserByID(ctx context.Context, userID string) (models.User, error) {
	session, err := s.db.Session()
	if err != nil {
		return models.User{}, err
	}

	user := models.User{ID: userID}
	err = session.Query(`SELECT email, password, provider, provider_id, created_at FROM users WHERE user_id = ?`, userID).
		WithContext(ctx).Scan(&user.Email, &user.Password, &user.Provider, &user.ProviderID, &user.CreatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.User{}, models.ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *ScyllaUserStore) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	session, err := s.db.Session()
	if err != nil {
		return models.Profile{}, err
	}

	profile := models.Profile{UserID: userID}
	err = session.Query(`SELECT email, name, phone, city, country, avatar_url, updated_at FROM profiles WHERE user_id = ?`, userID).
		WithContext(ctx).Scan(&profile.Email, &profile.Name, &profile.Phone, &profile.City,
		&profile.Country, &profile.AvatarURL, &profile.UpdatedAt)
	if errors.Is(err, gocql.ErrNotFound) {
		return models.Profile{}, models.ErrNotFound
	}
	if err != nil {
		return models.Profile{}, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *ScyllaUserStore) UpsertProfile(ctx context.Context, profile models.Profile) (models.Profile, error) {
	session, err := s.db.Session()
	if err != nil {
		return models.Profile{}, err
	}

	profile.UpdatedAt = nowUTC()
	err = session.Query(`INSERT INTO profiles (user_id, email, name, phone, city, country, avatar_url, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.UserID, profile.Email, profile.Name, profile.Phone, profile.City,
		profile.Country, profile.AvatarURL, profile.UpdatedAt).WithContext(ctx).Exec()
	if err != nil {
		return models.Profile{}, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}
