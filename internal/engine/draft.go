package engine

import (
	"strings"
	"time"

	"github.com/guttosm/catering-service/internal/apperrors"
	"github.com/guttosm/catering-service/internal/domain/model"
)

// DraftInput gathers everything the order draft is assembled from.
type DraftInput struct {
	Customer       model.Customer
	Checkout       model.CheckoutState
	Cart           []model.CartLine
	Package        *model.PackageMeta
	Totals         model.CheckoutTotals
	PaymentMethod  model.PaymentMethod
	SpecialRequest string
}

// AssembleDraft normalizes cart lines and package metadata into a
// submission-ready draft. The same input always produces the same draft.
func AssembleDraft(in DraftInput, loc *time.Location) (model.OrderDraft, error) {
	if len(in.Cart) == 0 {
		return model.OrderDraft{}, apperrors.New(apperrors.CodeNotReady, "cart is empty")
	}
	if loc == nil {
		loc = time.UTC
	}
	at, err := scheduledAt(in.Checkout.Date, in.Checkout.Time, loc)
	if err != nil {
		return model.OrderDraft{}, err
	}

	lines := make([]model.DraftLine, 0, len(in.Cart))
	kitchen := make([]model.DraftLine, 0, len(in.Cart))
	var spice []model.SpiceSelection
	meta := in.Package

	if meta != nil {
		levels := make(map[string]model.SpiceLevel, len(meta.Spice))
		for _, s := range meta.Spice {
			levels[s.ItemID] = s.Level
			spice = appendSpice(spice, s)
		}
		for _, l := range meta.Lines {
			kitchen = append(kitchen, model.DraftLine{Name: l.Name, Size: l.Size, Qty: l.Qty, SpiceLevel: levels[l.ID]})
		}
	}

	for _, l := range in.Cart {
		if l.IsPackage() {
			name := l.Name
			if meta != nil && meta.PackageID == l.ID {
				name += " - [" + PackageTraySummary(meta.Lines) + "]"
			}
			lines = append(lines, model.DraftLine{Name: name, Size: model.SizePackage, Qty: l.Qty})
			continue
		}
		dl := model.DraftLine{Name: l.Name, Size: l.Size, Qty: l.Qty}
		if l.Spice != "" {
			dl.SpiceLevel = NormalizeSpice(string(l.Spice))
			spice = appendSpice(spice, model.SpiceSelection{ItemID: l.ID, Name: l.Name, Level: dl.SpiceLevel})
		}
		lines = append(lines, dl)
		kitchen = append(kitchen, dl)
	}

	summaries := make([]string, 0, len(kitchen))
	for _, k := range kitchen {
		summaries = append(summaries, k.Summary())
	}

	draft := model.OrderDraft{
		Customer:        trimCustomer(in.Customer),
		Method:          in.Checkout.Method,
		ScheduledDate:   at.Format(dateLayout),
		ScheduledTime:   FormatSlotLabel(at.Hour()*60 + at.Minute()),
		ScheduledAt:     at,
		Lines:           lines,
		KitchenLines:    kitchen,
		TraySummary:     strings.Join(summaries, "; "),
		SpiceSelections: spice,
		Package:         meta,
		AddOns:          in.Checkout.AddOns,
		DiscountCode:    strings.TrimSpace(in.Checkout.DiscountCode),
		ReferralCode:    strings.TrimSpace(in.Checkout.ReferralCode),
		SpecialRequest:  strings.TrimSpace(in.SpecialRequest),
		PaymentMethod:   in.PaymentMethod,
		Totals:          in.Totals,
	}
	if in.Checkout.Method == model.MethodDelivery {
		if in.Checkout.Address != nil {
			addr := *in.Checkout.Address
			draft.Address = &addr
		}
		if in.Checkout.Delivery != nil {
			draft.DeliveryMiles = in.Checkout.Delivery.Miles
		}
	}
	return draft, nil
}

func scheduledAt(date, slot string, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(date) == "" || strings.TrimSpace(slot) == "" {
		return time.Time{}, apperrors.New(apperrors.CodeNotReady, "date and time are required")
	}
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, apperrors.Wrap(apperrors.CodeValidation, err, "date must be YYYY-MM-DD")
	}
	minutes, ok := ParseSlotTime(slot)
	if !ok {
		return time.Time{}, apperrors.New(apperrors.CodeValidation, "time must be HH:MM or h:mm AM/PM")
	}
	return time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, loc), nil
}

func appendSpice(list []model.SpiceSelection, s model.SpiceSelection) []model.SpiceSelection {
	for _, existing := range list {
		if existing.ItemID == s.ItemID && existing.Level == s.Level {
			return list
		}
	}
	return append(list, s)
}

func trimCustomer(c model.Customer) model.Customer {
	return model.Customer{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	}
}
