// Package service contains the catering storefront's business logic: it
// loads menu and settings, drives the pricing engine and owns session
// carts, checkout and order submission.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
	"github.com/guttosm/catering-service/internal/repository"
	"github.com/guttosm/catering-service/internal/service/cache"
)

// SettingsVersion is one stored version of a settings kind.
type SettingsVersion struct {
	Kind      model.SettingsKind `json:"kind"`
	Version   int                `json:"version"`
	Active    bool               `json:"active"`
	CreatedAt time.Time          `json:"created_at"`
	CreatedBy string             `json:"created_by,omitempty"`
	Payload   any                `json:"payload"`
}

// SettingsService serves the admin-managed packages, hours and pricing
// documents. Reads never fail: a missing, invalid or unreachable document
// falls back to the built-in defaults.
type SettingsService interface {
	Packages(ctx context.Context) model.PackageSettings
	Hours(ctx context.Context) model.HoursSettings
	Pricing(ctx context.Context) model.PricingConfig

	UpdatePackages(ctx context.Context, s model.PackageSettings, by string) (*SettingsVersion, error)
	UpdateHours(ctx context.Context, h model.HoursSettings, by string) (*SettingsVersion, error)
	UpdatePricing(ctx context.Context, p model.PricingConfig, by string) (*SettingsVersion, error)
	History(ctx context.Context, kind model.SettingsKind, limit int) ([]SettingsVersion, error)
}

// SettingsServiceImpl implements SettingsService.
type SettingsServiceImpl struct {
	repo     repository.SettingsRepositoryInterface
	cache    cache.Cache[model.SettingsKind, any]
	validate *validator.Validate
}

// NewSettingsService creates a settings service. repo may be nil when no
// database is configured; c may be nil to disable caching.
func NewSettingsService(repo repository.SettingsRepositoryInterface, c cache.Cache[model.SettingsKind, any]) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		repo:     repo,
		cache:    c,
		validate: validator.New(),
	}
}

// Packages returns the active package catalog.
func (s *SettingsServiceImpl) Packages(ctx context.Context) model.PackageSettings {
	return loadSettings(ctx, s, model.SettingsPackages, engine.DefaultPackageSettings, s.validatePackages)
}

// Hours returns the active pickup and delivery schedules.
func (s *SettingsServiceImpl) Hours(ctx context.Context) model.HoursSettings {
	return loadSettings(ctx, s, model.SettingsHours, engine.DefaultHoursSettings, validateHours)
}

// Pricing returns the active pricing configuration.
func (s *SettingsServiceImpl) Pricing(ctx context.Context) model.PricingConfig {
	return loadSettings(ctx, s, model.SettingsPricing, engine.DefaultPricingConfig, s.validatePricing)
}

// UpdatePackages validates and stores a new package catalog version.
func (s *SettingsServiceImpl) UpdatePackages(ctx context.Context, p model.PackageSettings, by string) (*SettingsVersion, error) {
	return s.save(ctx, model.SettingsPackages, p, by, func() error { return s.validatePackages(p) })
}

// UpdateHours validates and stores a new hours version.
func (s *SettingsServiceImpl) UpdateHours(ctx context.Context, h model.HoursSettings, by string) (*SettingsVersion, error) {
	return s.save(ctx, model.SettingsHours, h, by, func() error { return validateHours(h) })
}

// UpdatePricing validates and stores a new pricing version.
func (s *SettingsServiceImpl) UpdatePricing(ctx context.Context, p model.PricingConfig, by string) (*SettingsVersion, error) {
	return s.save(ctx, model.SettingsPricing, p, by, func() error { return s.validatePricing(p) })
}

// History lists stored versions of kind, newest first.
func (s *SettingsServiceImpl) History(ctx context.Context, kind model.SettingsKind, limit int) ([]SettingsVersion, error) {
	if !kind.Valid() {
		return nil, apperrors.Newf(apperrors.CodeValidation, "unknown settings kind %q", kind)
	}
	if s.repo == nil {
		return []SettingsVersion{}, nil
	}
	docs, err := s.repo.List(ctx, kind, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load settings history")
	}
	out := make([]SettingsVersion, 0, len(docs))
	for i := range docs {
		payload, err := decodePayload(&docs[i])
		if err != nil {
			log.Warn().Err(err).Str("kind", string(kind)).Int("version", docs[i].Version).Msg("skipping undecodable settings version")
			continue
		}
		out = append(out, versionOf(&docs[i], payload))
	}
	return out, nil
}

func (s *SettingsServiceImpl) save(ctx context.Context, kind model.SettingsKind, payload any, by string, check func() error) (*SettingsVersion, error) {
	if err := check(); err != nil {
		return nil, err
	}
	if s.repo == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "settings storage is not configured")
	}
	doc, err := s.repo.Create(ctx, kind, payload, by)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to save settings")
	}
	if s.cache != nil {
		s.cache.Invalidate(kind)
	}
	log.Info().Str("kind", string(kind)).Int("version", doc.Version).Str("by", by).Msg("settings updated")
	v := versionOf(doc, payload)
	return &v, nil
}

// loadSettings reads kind through the cache and repository, validating the
// stored payload and falling back to def on any problem.
func loadSettings[T any](ctx context.Context, s *SettingsServiceImpl, kind model.SettingsKind, def func() T, valid func(T) error) T {
	if s.cache != nil {
		if v, ok := s.cache.Get(kind); ok {
			if typed, ok := v.(T); ok {
				return typed
			}
		}
	}

	value := def()
	if s.repo != nil {
		doc, err := s.repo.GetActive(ctx, kind)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("kind", string(kind)).Msg("settings unavailable, using defaults")
			return value
		case doc != nil:
			var stored T
			if err := doc.Decode(&stored); err != nil {
				log.Warn().Err(err).Str("kind", string(kind)).Msg("settings undecodable, using defaults")
			} else if err := valid(stored); err != nil {
				log.Warn().Err(err).Str("kind", string(kind)).Msg("settings invalid, using defaults")
			} else {
				value = stored
			}
		}
	}

	if s.cache != nil {
		s.cache.Set(kind, value)
	}
	return value
}

func (s *SettingsServiceImpl) validatePackages(p model.PackageSettings) error {
	if err := s.validate.Struct(p); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, err, "invalid package settings")
	}
	if !p.Thresholds.Valid() {
		return apperrors.New(apperrors.CodeValidation, "tray thresholds must be positive and strictly increasing")
	}
	seen := make(map[string]bool, len(p.Packages))
	for _, pkg := range p.Packages {
		if seen[pkg.ID] {
			return apperrors.Newf(apperrors.CodeValidation, "duplicate package id %q", pkg.ID)
		}
		seen[pkg.ID] = true
		for course := range pkg.Slots {
			if !course.Valid() {
				return apperrors.Newf(apperrors.CodeValidation, "package %q has unknown course %q", pkg.ID, course)
			}
		}
	}
	return nil
}

func (s *SettingsServiceImpl) validatePricing(p model.PricingConfig) error {
	if err := s.validate.Struct(p); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, err, "invalid pricing config")
	}
	seen := make(map[model.TraySize]bool, len(p.Trays))
	for _, t := range p.Trays {
		switch t.Size {
		case model.TraySmall, model.TrayMedium, model.TrayLarge, model.TrayExtraLarge:
		default:
			return apperrors.Newf(apperrors.CodeValidation, "unknown tray size %q", t.Size)
		}
		if seen[t.Size] {
			return apperrors.Newf(apperrors.CodeValidation, "duplicate tray size %q", t.Size)
		}
		seen[t.Size] = true
	}
	return nil
}

func validateHours(h model.HoursSettings) error {
	if err := engine.ValidateWeek(h.Pickup); err != nil {
		return apperrors.Newf(apperrors.CodeValidation, "pickup hours: %s", err.Error())
	}
	if err := engine.ValidateWeek(h.Delivery); err != nil {
		return apperrors.Newf(apperrors.CodeValidation, "delivery hours: %s", err.Error())
	}
	return nil
}

func decodePayload(doc *repository.SettingsDocument) (any, error) {
	switch doc.Kind {
	case model.SettingsPackages:
		var p model.PackageSettings
		err := doc.Decode(&p)
		return p, err
	case model.SettingsHours:
		var h model.HoursSettings
		err := doc.Decode(&h)
		return h, err
	case model.SettingsPricing:
		var p model.PricingConfig
		err := doc.Decode(&p)
		return p, err
	default:
		return nil, fmt.Errorf("unknown settings kind %q", doc.Kind)
	}
}

func versionOf(doc *repository.SettingsDocument, payload any) SettingsVersion {
	return SettingsVersion{
		Kind:      doc.Kind,
		Version:   doc.Version,
		Active:    doc.Active,
		CreatedAt: doc.CreatedAt,
		CreatedBy: doc.CreatedBy,
		Payload:   payload,
	}
}
