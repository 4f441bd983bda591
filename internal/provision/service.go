// Package provision pairs an identity account with a professional profile.
// The two writes hit different collaborators and are not atomic; the
// ordering and cleanup rules here are the whole contract.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/nicolas1xx/psicoapp/internal/apperr"
	"github.com/nicolas1xx/psicoapp/internal/model"
)

type IdentityService interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (string, error)
	DeleteAccount(ctx context.Context, id string) error
}

type ProfileStore interface {
	Create(ctx context.Context, p model.Professional) error
	Update(ctx context.Context, id string, p model.Professional, newAvatar string) error
	Delete(ctx context.Context, id string) error
	GetStored(ctx context.Context, id string) (model.Professional, error)
}

type PhotoStore interface {
	Save(file multipart.File, originalName string) (string, error)
	Remove(filename string) error
}

type Service struct {
	identity IdentityService
	profiles ProfileStore
	photos   PhotoStore
	logger   *slog.Logger
}

func NewService(identity IdentityService, profiles ProfileStore, photos PhotoStore, logger *slog.Logger) *Service {
	return &Service{identity: identity, profiles: profiles, photos: photos, logger: logger}
}

// Input is the provisioning form. Photo may be nil.
type Input struct {
	Email     string
	Password  string
	Name      string
	Gender    string
	PriceRaw  string
	TagsRaw   string
	Bio       string
	Photo     multipart.File
	PhotoName string
}

// Create provisions a professional: price validation, optional photo save,
// account create, profile write — in that order, each its own failure
// domain. Returns the new professional id.
func (s *Service) Create(ctx context.Context, in Input) (string, error) {
	price, err := parsePrice(in.PriceRaw)
	if err != nil {
		return "", err
	}

	avatarFilename := s.savePhoto(in.Photo, in.PhotoName)

	id, err := s.identity.CreateAccount(ctx, in.Email, in.Password, in.Name)
	if err != nil {
		// The file is the only thing written so far; clean it up best-effort.
		if avatarFilename != model.DefaultAvatar {
			if rmErr := s.photos.Remove(avatarFilename); rmErr != nil {
				s.logger.Warn("orphan photo cleanup failed", "file", avatarFilename, "err", rmErr)
			}
		}
		return "", err
	}

	profile := model.Professional{
		ID:               id,
		Name:             in.Name,
		Gender:           in.Gender,
		SessionPrice:     price,
		ShortDescription: in.Bio,
		Tags:             ParseTags(in.TagsRaw),
		AvatarFilename:   avatarFilename,
		Email:            in.Email,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		// Known consistency gap: the account already exists and is NOT
		// rolled back here, leaving an identity without a profile. Surfaced
		// for operator cleanup instead of silently compensating.
		s.logger.Error("profile write failed after account create; orphaned account", "account_id", id, "err", err)
		return "", err
	}
	return id, nil
}

// Update edits the profile only; the account is never touched. A new photo
// is optional and a failed save keeps the previous one.
func (s *Service) Update(ctx context.Context, id string, in Input) error {
	price, err := parsePrice(in.PriceRaw)
	if err != nil {
		return err
	}

	newAvatar := ""
	if in.Photo != nil && in.PhotoName != "" {
		saved, err := s.photos.Save(in.Photo, in.PhotoName)
		if err != nil {
			s.logger.Warn("photo save failed; keeping current photo", "err", err)
		} else {
			newAvatar = saved
		}
	}

	profile := model.Professional{
		Name:             in.Name,
		Gender:           in.Gender,
		SessionPrice:     price,
		ShortDescription: in.Bio,
		Tags:             ParseTags(in.TagsRaw),
		Email:            in.Email,
	}
	return s.profiles.Update(ctx, id, profile, newAvatar)
}

// Delete removes account, profile and stored photo. A missing account is a
// tolerated partial state: the profile deletion still proceeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	photo := model.DefaultAvatar
	if stored, err := s.profiles.GetStored(ctx, id); err == nil {
		photo = stored.AvatarFilename
	} else {
		s.logger.Warn("could not read profile before delete", "id", id, "err", err)
	}

	if err := s.identity.DeleteAccount(ctx, id); err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	if err := s.profiles.Delete(ctx, id); err != nil {
		return err
	}
	if photo != model.DefaultAvatar {
		if err := s.photos.Remove(photo); err != nil {
			s.logger.Warn("photo cleanup failed", "file", photo, "err", err)
		}
	}
	return nil
}

// savePhoto persists the upload when present and acceptable. An I/O failure
// downgrades to the sentinel rather than aborting the provisioning.
func (s *Service) savePhoto(file multipart.File, name string) string {
	if file == nil || name == "" {
		return model.DefaultAvatar
	}
	saved, err := s.photos.Save(file, name)
	if err != nil {
		s.logger.Warn("photo save failed; using default avatar", "err", err)
		return model.DefaultAvatar
	}
	return saved
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: o valor da sessão deve ser um número válido", apperr.ErrValidation)
	}
	return price, nil
}

// ParseTags splits the comma-separated specialty field, dropping blanks and
// preserving the given order.
func ParseTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	if tags == nil {
		tags = []string{}
	}
	return tags
}
