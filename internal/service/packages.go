package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
	"github.com/guttosm/catering-service/internal/metrics"
	"github.com/guttosm/catering-service/internal/session"
)

// PackageSelection identifies a package and the dishes picked per course.
type PackageSelection struct {
	PackageID string                    `json:"package_id" binding:"required" example:"classic"`
	Picks     map[model.Course][]string `json:"picks"`
}

// PickRequest toggles one dish in a package selection.
type PickRequest struct {
	PackageSelection
	Course model.Course `json:"course" binding:"required" example:"main"`
	ItemID string       `json:"item_id" binding:"required" example:"butter-chicken"`
}

// SelectionView reports the state of a package selection.
type SelectionView struct {
	PackageID  string                    `json:"package_id"`
	Picks      map[model.Course][]string `json:"picks"`
	Remaining  map[model.Course]int      `json:"remaining"`
	OpenCourse model.Course              `json:"open_course,omitempty"`
	Complete   bool                      `json:"complete"`
	Picked     bool                      `json:"picked"`
}

// PackageQuoteRequest asks for a tray recommendation for a package.
type PackageQuoteRequest struct {
	PackageSelection
	Guests   int                    `json:"guests" example:"40"`
	Appetite model.Appetite         `json:"appetite" example:"regular"`
	Spice    []model.SpiceSelection `json:"spice,omitempty"`
}

// PackageQuote is a recommendation for a normalized headcount.
type PackageQuote struct {
	Recommendation model.PackageRecommendation `json:"recommendation"`
	// LargeOrder is set when the requested headcount exceeded the online maximum.
	LargeOrder bool `json:"large_order"`
}

// PackageService drives per-person package configuration.
type PackageService interface {
	Catalog(ctx context.Context) model.PackageSettings
	TogglePick(ctx context.Context, req PickRequest) (*SelectionView, error)
	Quote(ctx context.Context, req PackageQuoteRequest) (*PackageQuote, error)
	// AddToCart quotes the package and stores it as the session's single
	// line for that package id, replacing any earlier one. The kitchen
	// metadata kept in the session always describes the latest package.
	AddToCart(ctx context.Context, sessionID string, req PackageQuoteRequest) (*CartView, error)
}

// PackageServiceImpl implements PackageService.
type PackageServiceImpl struct {
	settings SettingsService
	menu     MenuService
	store    session.Store
}

// NewPackageService creates a package service.
func NewPackageService(settings SettingsService, menu MenuService, store session.Store) *PackageServiceImpl {
	return &PackageServiceImpl{settings: settings, menu: menu, store: store}
}

// Catalog returns the active packages and tray thresholds.
func (s *PackageServiceImpl) Catalog(ctx context.Context) model.PackageSettings {
	return s.settings.Packages(ctx)
}

// TogglePick replays the current picks and toggles one dish.
func (s *PackageServiceImpl) TogglePick(ctx context.Context, req PickRequest) (*SelectionView, error) {
	sel, idx, err := s.restore(ctx, req.PackageSelection)
	if err != nil {
		return nil, err
	}
	item, ok := idx[strings.TrimSpace(req.ItemID)]
	if !ok {
		return nil, apperrors.Newf(apperrors.CodeNotFound, "menu item %q not found", req.ItemID)
	}
	if item.Course != req.Course {
		return nil, apperrors.Newf(apperrors.CodeValidation, "%s is not a %s dish", item.Name, req.Course)
	}
	picked, err := sel.Toggle(req.Course, item)
	if err != nil {
		return nil, err
	}
	view := viewOf(sel)
	view.Picked = picked
	return &view, nil
}

// Quote computes trays and the per-person price for a complete selection.
func (s *PackageServiceImpl) Quote(ctx context.Context, req PackageQuoteRequest) (*PackageQuote, error) {
	start := time.Now()
	q, err := s.quote(ctx, req)
	status, label := "success", req.PackageID
	if err != nil {
		code := apperrors.CodeOf(err)
		status = strings.ToLower(string(code))
		if code == apperrors.CodeNotFound {
			label = "unknown"
		}
	}
	metrics.RecordPackageQuote(time.Since(start), label, status)
	return q, err
}

func (s *PackageServiceImpl) quote(ctx context.Context, req PackageQuoteRequest) (*PackageQuote, error) {
	if req.Guests <= 0 {
		return nil, engine.ErrNotReady
	}
	guests, large := engine.NormalizeGuests(req.Guests)

	sel, _, err := s.restore(ctx, req.PackageSelection)
	if err != nil {
		return nil, err
	}
	if !sel.Complete() {
		return nil, apperrors.New(apperrors.CodeNotReady, "every course must be filled").
			WithDetails(map[string]any{"remaining": sel.Remaining(), "open_course": sel.OpenCourse()})
	}

	cfg := s.settings.Packages(ctx)
	rec, err := engine.Recommend(engine.RecommendationInput{
		Selection:  sel,
		Guests:     guests,
		Appetite:   req.Appetite,
		Thresholds: cfg.Thresholds,
		HeavyBump:  cfg.HeavyBump,
		Spice:      req.Spice,
	})
	if err != nil {
		return nil, err
	}
	return &PackageQuote{Recommendation: rec, LargeOrder: large}, nil
}

// AddToCart stores the package line and its kitchen metadata in the session.
func (s *PackageServiceImpl) AddToCart(ctx context.Context, sessionID string, req PackageQuoteRequest) (*CartView, error) {
	q, err := s.Quote(ctx, req)
	if err != nil {
		return nil, err
	}
	if q.LargeOrder {
		return nil, apperrors.New(apperrors.CodeValidation, "large orders must be arranged directly with the kitchen")
	}

	cfg := s.settings.Packages(ctx)
	meta := engine.PackageMetaFor(q.Recommendation, cfg.Thresholds, cfg.HeavyBump)
	line := engine.PackageCartLine(q.Recommendation, meta)

	cart, err := loadCart(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	kept := cart.Lines[:0:0]
	for _, l := range cart.Lines {
		if !(l.IsPackage() && l.ID == line.ID) {
			kept = append(kept, l)
		}
	}
	cart.Lines = append(kept, line)

	if err := s.store.Set(ctx, sessionID, session.KeyCart, cart); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to save cart")
	}
	if err := s.store.Set(ctx, sessionID, session.KeyPackageMeta, meta); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to save package details")
	}

	log.Debug().Str("session_id", sessionID).Str("package", meta.PackageID).Int("guests", meta.Guests).Msg("package added to cart")
	return newCartView(cart, &meta), nil
}

// restore resolves picked ids against the active menu and replays them.
func (s *PackageServiceImpl) restore(ctx context.Context, req PackageSelection) (*engine.Selection, map[string]model.MenuItem, error) {
	pkg, ok := s.settings.Packages(ctx).Find(strings.TrimSpace(req.PackageID))
	if !ok {
		return nil, nil, apperrors.Newf(apperrors.CodeNotFound, "package %q not found", req.PackageID)
	}
	idx, err := s.menu.Index(ctx)
	if err != nil {
		return nil, nil, err
	}

	picks := make(map[model.Course][]model.MenuItem, len(req.Picks))
	for course, ids := range req.Picks {
		for _, id := range ids {
			item, ok := idx[id]
			if !ok {
				return nil, nil, apperrors.Newf(apperrors.CodeValidation, "menu item %q is not available", id)
			}
			if item.Course != course {
				return nil, nil, apperrors.Newf(apperrors.CodeValidation, "%s is not a %s dish", item.Name, course)
			}
			picks[course] = append(picks[course], item)
		}
	}
	sel, err := engine.RestoreSelection(pkg, picks)
	if err != nil {
		return nil, nil, err
	}
	return sel, idx, nil
}

func viewOf(sel *engine.Selection) SelectionView {
	picks := sel.Picks()
	ids := make(map[model.Course][]string, len(picks))
	for course, items := range picks {
		for _, it := range items {
			ids[course] = append(ids[course], it.ID)
		}
	}
	return SelectionView{
		PackageID:  sel.Package().ID,
		Picks:      ids,
		Remaining:  sel.Remaining(),
		OpenCourse: sel.OpenCourse(),
		Complete:   sel.Complete(),
	}
}
