package subscription

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/dll-community/billing/internal/shared/biztime"
)

// PlanTranslation is a per-language name/description pair for a plan.
type PlanTranslation struct {
	Language    string
	Name        string
	Description string
}

// PlanPrice is one currency entry of a plan's price list. Amount is in
// minor currency units. The (plan, currency) pair is unique.
type PlanPrice struct {
	Currency    string
	AmountMinor int64
}

// Plan is the subscription-plan aggregate. Prices are snapshotted into
// order items at purchase time, so mutating a plan never rewrites
// history.
type Plan struct {
	id             uint
	key            string
	durationInDays int
	isActive       bool
	sortOrder      int
	translations   []PlanTranslation
	prices         []PlanPrice
	createdAt      time.Time
	updatedAt      time.Time
}

// NewPlan creates an active plan.
func NewPlan(key string, durationInDays, sortOrder int, translations []PlanTranslation, prices []PlanPrice) (*Plan, error) {
	if key == "" {
		return nil, fmt.Errorf("plan key is required")
	}
	if durationInDays <= 0 {
		return nil, fmt.Errorf("plan duration must be positive, got %d", durationInDays)
	}
	if err := validatePrices(prices); err != nil {
		return nil, err
	}

	now := biztime.NowUTC()
	return &Plan{
		key:            key,
		durationInDays: durationInDays,
		isActive:       true,
		sortOrder:      sortOrder,
		translations:   translations,
		prices:         prices,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// ReconstructPlan rebuilds a plan from persistence.
func ReconstructPlan(
	id uint,
	key string,
	durationInDays int,
	isActive bool,
	sortOrder int,
	translations []PlanTranslation,
	prices []PlanPrice,
	createdAt, updatedAt time.Time,
) (*Plan, error) {
	if id == 0 {
		return nil, fmt.Errorf("plan ID cannot be zero")
	}
	if durationInDays <= 0 {
		return nil, fmt.Errorf("plan duration must be positive, got %d", durationInDays)
	}

	return &Plan{
		id:             id,
		key:            key,
		durationInDays: durationInDays,
		isActive:       isActive,
		sortOrder:      sortOrder,
		translations:   translations,
		prices:         prices,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func validatePrices(prices []PlanPrice) error {
	seen := make(map[string]bool, len(prices))
	for _, p := range prices {
		if p.AmountMinor <= 0 {
			return fmt.Errorf("plan price must be positive, got %d %s", p.AmountMinor, p.Currency)
		}
		if seen[p.Currency] {
			return fmt.Errorf("duplicate plan price for currency %s", p.Currency)
		}
		seen[p.Currency] = true
	}
	return nil
}

func (p *Plan) ID() uint {
	return p.id
}

func (p *Plan) Key() string {
	return p.key
}

func (p *Plan) DurationInDays() int {
	return p.durationInDays
}

func (p *Plan) IsActive() bool {
	return p.isActive
}

func (p *Plan) SortOrder() int {
	return p.sortOrder
}

func (p *Plan) Translations() []PlanTranslation {
	out := make([]PlanTranslation, len(p.translations))
	copy(out, p.translations)
	return out
}

func (p *Plan) Prices() []PlanPrice {
	out := make([]PlanPrice, len(p.prices))
	copy(out, p.prices)
	return out
}

func (p *Plan) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Plan) UpdatedAt() time.Time {
	return p.updatedAt
}

// PriceFor returns the plan's price in the given currency, or
// ErrPriceNotFound when the plan carries no entry for it.
func (p *Plan) PriceFor(currency string) (PlanPrice, error) {
	for _, price := range p.prices {
		if price.Currency == currency {
			return price, nil
		}
	}
	return PlanPrice{}, fmt.Errorf("%w: plan %s has no price in %s", ErrPriceNotFound, p.key, currency)
}

// TranslationFor picks the best translation for the requested BCP 47
// language tag, falling back to the first translation when nothing
// matches.
func (p *Plan) TranslationFor(lang string) PlanTranslation {
	if len(p.translations) == 0 {
		return PlanTranslation{Language: lang, Name: p.key}
	}

	tags := make([]language.Tag, 0, len(p.translations))
	for _, tr := range p.translations {
		tag, err := language.Parse(tr.Language)
		if err != nil {
			tag = language.Und
		}
		tags = append(tags, tag)
	}

	matcher := language.NewMatcher(tags)
	if requested, err := language.Parse(lang); err == nil {
		_, idx, conf := matcher.Match(requested)
		if conf > language.No {
			return p.translations[idx]
		}
	}
	return p.translations[0]
}

// Deactivate hides the plan from the purchase catalog. Existing
// subscriptions on the plan are unaffected.
func (p *Plan) Deactivate() {
	if !p.isActive {
		return
	}
	p.isActive = false
	p.updatedAt = biztime.NowUTC()
}

func (p *Plan) Activate() {
	if p.isActive {
		return
	}
	p.isActive = true
	p.updatedAt = biztime.NowUTC()
}
