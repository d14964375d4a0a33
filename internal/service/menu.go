package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
	"github.com/guttosm/catering-service/internal/repository"
	"github.com/guttosm/catering-service/internal/service/cache"
)

const activeMenuKey = "active"

// MenuService manages catalog dishes and their derived sale prices.
type MenuService interface {
	List(ctx context.Context, includeInactive bool) ([]model.MenuItem, error)
	Get(ctx context.Context, id string) (*model.MenuItem, error)
	// Index returns active dishes keyed by id.
	Index(ctx context.Context) (map[string]model.MenuItem, error)
	Upsert(ctx context.Context, item model.MenuItem) (*model.MenuItem, error)
	SetActive(ctx context.Context, id string, active bool) error
	// Reprice re-derives and stores sale prices for every dish from the
	// active pricing config, returning the number of dishes updated.
	Reprice(ctx context.Context) (int, error)
}

// MenuServiceImpl implements MenuService.
type MenuServiceImpl struct {
	repo     repository.MenuRepositoryInterface
	settings SettingsService
	cache    cache.Cache[string, []model.MenuItem]
	now      func() time.Time
}

// MenuOption configures a MenuServiceImpl.
type MenuOption func(*MenuServiceImpl)

// WithMenuCache caches the active menu listing.
func WithMenuCache(c cache.Cache[string, []model.MenuItem]) MenuOption {
	return func(s *MenuServiceImpl) {
		s.cache = c
	}
}

// WithMenuClock overrides the clock stamped on re-priced dishes.
func WithMenuClock(now func() time.Time) MenuOption {
	return func(s *MenuServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMenuService creates a menu service.
func NewMenuService(repo repository.MenuRepositoryInterface, settings SettingsService, opts ...MenuOption) *MenuServiceImpl {
	s := &MenuServiceImpl{
		repo:     repo,
		settings: settings,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns dishes in course order then name, with prices derived from
// the active pricing config.
func (s *MenuServiceImpl) List(ctx context.Context, includeInactive bool) ([]model.MenuItem, error) {
	if !includeInactive && s.cache != nil {
		if items, ok := s.cache.Get(activeMenuKey); ok {
			return items, nil
		}
	}
	if s.repo == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "menu storage is not configured")
	}

	items, err := s.repo.List(ctx, !includeInactive)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load menu")
	}

	cfg := s.settings.Pricing(ctx)
	out := make([]model.MenuItem, 0, len(items))
	for _, it := range items {
		out = append(out, engine.DerivePrices(it, cfg, it.UpdatedAt))
	}
	sortMenu(out)

	if !includeInactive && s.cache != nil {
		s.cache.Set(activeMenuKey, out)
	}
	return out, nil
}

// Get returns one dish with derived prices.
func (s *MenuServiceImpl) Get(ctx context.Context, id string) (*model.MenuItem, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "menu item id is required")
	}
	if s.repo == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "menu storage is not configured")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load menu item")
	}
	if item == nil {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "menu item %q not found", id)
	}
	priced := engine.DerivePrices(*item, s.settings.Pricing(ctx), item.UpdatedAt)
	return &priced, nil
}

// Index returns active dishes keyed by id.
func (s *MenuServiceImpl) Index(ctx context.Context) (map[string]model.MenuItem, error) {
	items, err := s.List(ctx, false)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]model.MenuItem, len(items))
	for _, it := range items {
		idx[it.ID] = it
	}
	return idx, nil
}

// Upsert validates a dish, derives its prices and stores it.
func (s *MenuServiceImpl) Upsert(ctx context.Context, item model.MenuItem) (*model.MenuItem, error) {
	item.ID = strings.TrimSpace(item.ID)
	item.Name = strings.TrimSpace(item.Name)
	switch {
	case item.ID == "":
		return nil, apperrors.New(apperrors.CodeValidation, "menu item id is required")
	case item.Name == "":
		return nil, apperrors.New(apperrors.CodeValidation, "menu item name is required")
	case item.Cost < 0:
		return nil, apperrors.New(apperrors.CodeValidation, "cost must not be negative")
	case item.Course != "" && !item.Course.Valid():
		return nil, apperrors.Newf(apperrors.CodeValidation, "unknown course %q", item.Course)
	case item.Kind != "" && item.Kind != model.KindTray && item.Kind != model.KindPerPiece:
		return nil, apperrors.Newf(apperrors.CodeValidation, "unknown pricing kind %q", item.Kind)
	}
	if s.repo == nil {
		return nil, apperrors.New(apperrors.CodeDependency, "menu storage is not configured")
	}

	priced := engine.DerivePrices(item, s.settings.Pricing(ctx), s.now())
	if err := s.repo.Upsert(ctx, &priced); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to save menu item")
	}
	s.invalidate()
	return &priced, nil
}

// SetActive shows or hides a dish.
func (s *MenuServiceImpl) SetActive(ctx context.Context, id string, active bool) error {
	if s.repo == nil {
		return apperrors.New(apperrors.CodeDependency, "menu storage is not configured")
	}
	found, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to update menu item")
	}
	if !found {
		return apperrors.Newf(apperrors.CodeNotFound, "menu item %q not found", id)
	}
	s.invalidate()
	return nil
}

// Reprice stores freshly derived prices for every dish.
func (s *MenuServiceImpl) Reprice(ctx context.Context) (int, error) {
	if s.repo == nil {
		return 0, apperrors.New(apperrors.CodeDependency, "menu storage is not configured")
	}
	items, err := s.repo.List(ctx, false)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load menu")
	}
	if len(items) == 0 {
		return 0, nil
	}

	cfg := s.settings.Pricing(ctx)
	now := s.now()
	priced := make([]model.MenuItem, 0, len(items))
	for _, it := range items {
		priced = append(priced, engine.DerivePrices(it, cfg, now))
	}
	if err := s.repo.UpdatePrices(ctx, priced); err != nil {
		return 0, apperrors.Wrap(apperrors.CodeDependency, err, "failed to store prices")
	}
	s.invalidate()

	log.Info().Int("items", len(priced)).Float64("margin_pct", cfg.MarginPct).Msg("menu repriced")
	return len(priced), nil
}

func (s *MenuServiceImpl) invalidate() {
	if s.cache != nil {
		s.cache.Invalidate(activeMenuKey)
	}
}

func sortMenu(items []model.MenuItem) {
	rank := make(map[model.Course]int, len(model.CourseOrder))
	for i, c := range model.CourseOrder {
		rank[c] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := rank[items[i].Course], rank[items[j].Course]
		if ri != rj {
			return ri < rj
		}
		return items[i].Name < items[j].Name
	})
}
