package service

import (
	"context"
	"strings"

	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/model"
	"github.com/guttosm/catering-service/internal/engine"
	"github.com/guttosm/catering-service/internal/session"
)

const maxLineQty = 50

// AddLineRequest adds a tray or per-piece dish to the cart.
type AddLineRequest struct {
	ItemID string `json:"item_id" binding:"required" example:"butter-chicken"`
	// Size is a tray size key or "per-piece".
	Size  string `json:"size" binding:"required" example:"MediumTray"`
	Qty   int    `json:"qty" binding:"required,min=1" example:"2"`
	Spice string `json:"spice,omitempty" example:"Medium"`
}

// CartView is the cart with its subtotal and any package details.
//
// @Description Session cart
type CartView struct {
	Lines []model.CartLine `json:"lines"`
	// Keys holds each line's removal key, in line order.
	Keys     []string           `json:"keys"`
	Subtotal float64            `json:"subtotal" example:"180"`
	Package  *model.PackageMeta `json:"package,omitempty"`
} // @name CartView

// CartService owns the session cart.
type CartService interface {
	Get(ctx context.Context, sessionID string) (*CartView, error)
	AddLine(ctx context.Context, sessionID string, req AddLineRequest) (*CartView, error)
	// RemoveLine drops the line with the given key ("id|size|spice").
	RemoveLine(ctx context.Context, sessionID, key string) (*CartView, error)
	Clear(ctx context.Context, sessionID string) error
}

// CartServiceImpl implements CartService.
type CartServiceImpl struct {
	menu  MenuService
	store session.Store
}

// NewCartService creates a cart service.
func NewCartService(menu MenuService, store session.Store) *CartServiceImpl {
	return &CartServiceImpl{menu: menu, store: store}
}

// Get returns the session cart.
func (s *CartServiceImpl) Get(ctx context.Context, sessionID string) (*CartView, error) {
	cart, err := loadCart(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	meta, err := loadPackageMeta(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	return newCartView(cart, meta), nil
}

// AddLine prices a dish from the menu and merges it into the cart.
func (s *CartServiceImpl) AddLine(ctx context.Context, sessionID string, req AddLineRequest) (*CartView, error) {
	if req.Qty < 1 || req.Qty > maxLineQty {
		return nil, apperrors.Newf(apperrors.CodeValidation, "qty must be between 1 and %d", maxLineQty)
	}
	item, err := s.menu.Get(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.Active {
		return nil, apperrors.Newf(apperrors.CodeValidation, "%s is not available", item.Name)
	}
	line, err := lineFor(*item, strings.TrimSpace(req.Size), req.Qty, req.Spice)
	if err != nil {
		return nil, err
	}

	cart, err := loadCart(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].Key() == line.Key() {
			if cart.Lines[i].Qty+line.Qty > maxLineQty {
				return nil, apperrors.Newf(apperrors.CodeValidation, "qty must be between 1 and %d", maxLineQty)
			}
			cart.Lines[i].Qty += line.Qty
			cart.Lines[i].Unit = line.Unit
			merged = true
			break
		}
	}
	if !merged {
		cart.Lines = append(cart.Lines, line)
	}
	if err := s.store.Set(ctx, sessionID, session.KeyCart, cart); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to save cart")
	}
	return s.Get(ctx, sessionID)
}

// RemoveLine drops a line. Removing the package line also drops its
// kitchen metadata.
func (s *CartServiceImpl) RemoveLine(ctx context.Context, sessionID, key string) (*CartView, error) {
	cart, err := loadCart(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}
	meta, err := loadPackageMeta(ctx, s.store, sessionID)
	if err != nil {
		return nil, err
	}

	kept := cart.Lines[:0:0]
	var removed *model.CartLine
	for _, l := range cart.Lines {
		if removed == nil && l.Key() == key {
			l := l
			removed = &l
			continue
		}
		kept = append(kept, l)
	}
	if removed == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, "cart line not found")
	}
	cart.Lines = kept

	if err := s.store.Set(ctx, sessionID, session.KeyCart, cart); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to save cart")
	}
	if removed.IsPackage() && meta != nil && meta.PackageID == removed.ID {
		if err := s.store.Clear(ctx, sessionID, session.KeyPackageMeta); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to clear package details")
		}
		meta = nil
	}
	return newCartView(cart, meta), nil
}

// Clear empties the cart, package details and checkout draft.
func (s *CartServiceImpl) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return apperrors.New(apperrors.CodeValidation, session.ErrSessionRequired.Error())
	}
	if err := s.store.Clear(ctx, sessionID); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "failed to clear session")
	}
	return nil
}

// lineFor builds a cart line for a dish at the given size.
func lineFor(item model.MenuItem, size string, qty int, spice string) (model.CartLine, error) {
	line := model.CartLine{
		ID:       item.ID,
		Name:     item.Name,
		Size:     size,
		Qty:      qty,
		Category: item.Category,
	}
	if item.Kind == model.KindPerPiece {
		if size != model.SizePerPiece {
			return model.CartLine{}, apperrors.Newf(apperrors.CodeValidation, "%s is sold per piece", item.Name)
		}
		line.Unit = piecePrice(item)
	} else {
		line.Unit = item.PriceFor(model.TraySize(size))
		if line.Unit <= 0 {
			return model.CartLine{}, apperrors.Newf(apperrors.CodeValidation, "%s is not offered in size %q", item.Name, size)
		}
	}
	if item.IsMainCourse() {
		line.Spice = engine.NormalizeSpice(spice)
	}
	return line, nil
}

func piecePrice(item model.MenuItem) float64 {
	if item.PiecePrice > 0 {
		return item.PiecePrice
	}
	return item.SalePrice
}

func loadCart(ctx context.Context, store session.Store, sessionID string) (*model.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.New(apperrors.CodeValidation, session.ErrSessionRequired.Error())
	}
	cart := &model.Cart{}
	if _, err := store.Get(ctx, sessionID, session.KeyCart, cart); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load cart")
	}
	if cart.Lines == nil {
		cart.Lines = []model.CartLine{}
	}
	return cart, nil
}

func loadPackageMeta(ctx context.Context, store session.Store, sessionID string) (*model.PackageMeta, error) {
	var meta model.PackageMeta
	ok, err := store.Get(ctx, sessionID, session.KeyPackageMeta, &meta)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "failed to load package details")
	}
	if !ok {
		return nil, nil
	}
	return &meta, nil
}

func newCartView(cart *model.Cart, meta *model.PackageMeta) *CartView {
	keys := make([]string, len(cart.Lines))
	for i, l := range cart.Lines {
		keys[i] = l.Key()
	}
	return &CartView{
		Lines:    cart.Lines,
		Keys:     keys,
		Subtotal: engine.CartSubtotal(cart.Lines),
		Package:  meta,
	}
}
