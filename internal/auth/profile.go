package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"verideal_back_end/internal/models"
)

// ProfileInput holds the editable profile fields.
type ProfileInput struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Country   string `json:"country"`
	AvatarURL string `json:"avatar_url"`
}

// GetProfile returns an empty profile for users who never saved one.
func (s *Service) GetProfile(ctx context.Context, userID string) (models.Profile, error) {
	p, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		p = models.Profile{UserID: userID}
		if user, uerr := s.users.GetUserByID(ctx, userID); uerr == nil {
			p.Email = user.Email
		}
		return p, nil
	}
	return p, err
}

// UpsertProfile saves the editable fields and keeps the account email.
func (s *Service) UpsertProfile(ctx context.Context, userID string, in ProfileInput) (models.Profile, error) {
	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	current.Name = strings.TrimSpace(in.Name)
	current.Phone = strings.TrimSpace(in.Phone)
	current.City = strings.TrimSpace(in.City)
	current.Country = strings.TrimSpace(in.Country)
	if in.AvatarURL != "" {
		current.AvatarURL = in.AvatarURL
	}
	return s.profiles.UpsertProfile(ctx, current)
}

// UploadAvatar stores the image and points the profile at it.
func (s *Service) UploadAvatar(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (models.Profile, error) {
	if s.avatars == nil {
		return models.Profile{}, fmt.Errorf("avatar storage: %w", models.ErrNotConfigured)
	}
	url, err := s.avatars.Upload(ctx, userID, r, size, contentType)
	if err != nil {
		return models.Profile{}, err
	}
	current, err := s.GetProfile(ctx, userID)
	if err != nil {
		return models.Profile{}, err
	}
	current.AvatarURL = url
	return s.profiles.UpsertProfile(ctx, current)
}
