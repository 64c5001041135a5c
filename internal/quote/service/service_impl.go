package service

import (
	"context"
	"sort"
	"strings"

	catalogdomain "github.com/printhaus/printhaus/internal/catalog/domain"
	classificationdomain "github.com/printhaus/printhaus/internal/classification/domain"
	"github.com/printhaus/printhaus/internal/config"
	quotedomain "github.com/printhaus/printhaus/internal/quote/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// reservedSelectionKeys never participate in row matching. Rush and the
// price display values ride along in the same selection map the storefront
// submits.
var reservedSelectionKeys = map[string]bool{
	"Rush":       true,
	"Qty":        true,
	"Price":      true,
	"Unit Price": true,
	"Total":      true,
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	CatalogRepo catalogdomain.Repository
	Classifier  classificationdomain.Service
	Pricing     *config.PricingConfigHolder
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	catalogRepo catalogdomain.Repository
	classifier  classificationdomain.Service
	pricing     *config.PricingConfigHolder
}

func New(p Params) quotedomain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("quote.service"),
		catalogRepo: p.CatalogRepo,
		classifier:  p.Classifier,
		pricing:     p.Pricing,
	}
}

// Quote prices one configuration: resolve the main row, price it by tier,
// layer the independent surcharges on top, and apply VAT. The engine holds
// no state between calls; both reads hit the store fresh on every request.
func (s *Service) Quote(ctx context.Context, req quotedomain.Request) (*quotedomain.Result, error) {
	if req.Qty <= 0 {
		return nil, quotedomain.ErrInvalidQuantity
	}

	keys, err := s.classifier.Classify(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	rows, err := s.catalogRepo.ListByProduct(ctx, s.db, req.Slug)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, quotedomain.ErrServiceNotFound
	}

	selection := stripReservedKeys(req.Selection)

	mainRow, modifierRows := s.matchRows(req.Slug, rows, keys, selection)
	if mainRow == nil {
		return nil, quotedomain.ErrNoMainConfiguration
	}

	base, err := priceRow(mainRow, req.Qty)
	if err != nil {
		return nil, err
	}
	base = base.Round(2)

	cfg := s.pricing.Get()
	qty := decimal.NewFromInt(req.Qty)

	var items []quotedomain.Item
	modifierRowIDs := make([]string, 0, len(modifierRows))

	// Database modifier rows price independently at the same quantity.
	for _, row := range modifierRows {
		total, err := priceRow(row, req.Qty)
		if err != nil {
			return nil, err
		}
		items = append(items, quotedomain.Item{
			Name:  modifierDisplayName(row.AttrMap()),
			Price: total.Round(2),
		})
		modifierRowIDs = append(modifierRowIDs, row.ID.String())
	}

	// Rush is a percentage of the base price only, never of other
	// modifiers. Values with a zero multiplier (express) are recognized
	// but free.
	if rush := req.Selection["Rush"]; rush != "" {
		if multiplier, ok := cfg.RushMultipliers[rush]; ok && multiplier > 0 {
			items = append(items, quotedomain.Item{
				Name:  "Rush: " + displayValue(rush),
				Price: base.Mul(decimal.NewFromFloat(multiplier)).Round(2),
			})
		}
	}

	if lamination := req.Selection["Lamination"]; lamination != "" && lamination != "None" {
		if rate, ok := cfg.LaminationRates[lamination]; ok {
			items = append(items, quotedomain.Item{
				Name:  "Lamination: " + lamination,
				Price: decimal.NewFromFloat(rate).Mul(qty).Round(2),
			})
		}
	}

	if req.Selection["Corners"] == "Rounded" {
		items = append(items, quotedomain.Item{
			Name:  "Corners: Rounded",
			Price: decimal.NewFromFloat(cfg.RoundedCornerRate).Mul(qty).Round(2),
		})
	}

	// Turnaround and Rush overlap as business concepts but are priced by
	// independent mechanisms; both apply when both are requested.
	if turnaround := req.Extras.Turnaround; turnaround != "" {
		if rate, ok := cfg.TurnaroundRates[turnaround]; ok && rate > 0 {
			items = append(items, quotedomain.Item{
				Name:  "Turnaround: " + displayValue(turnaround),
				Price: decimal.NewFromFloat(rate).Mul(qty).Round(2),
			})
		}
	}

	// Delivery fees are flat, charged once per order.
	if delivery := req.Extras.Delivery; delivery != "" {
		if fee, ok := cfg.DeliveryFees[delivery]; ok && fee > 0 {
			items = append(items, quotedomain.Item{
				Name:  "Delivery: " + displayValue(delivery),
				Price: decimal.NewFromFloat(fee).Round(2),
			})
		}
	}

	add := decimal.Zero
	for _, item := range items {
		add = add.Add(item.Price)
	}

	net := base.Add(add)
	vat := net.Mul(decimal.NewFromFloat(cfg.VATRate)).Round(2)
	gross := net.Add(vat)
	unit := gross.Div(qty).Round(2)

	if items == nil {
		items = []quotedomain.Item{}
	}

	s.log.Debug("quote computed",
		zap.String("product_slug", req.Slug),
		zap.Int64("qty", req.Qty),
		zap.String("main_row_id", mainRow.ID.String()),
		zap.Int("modifier_rows", len(modifierRows)),
		zap.String("gross", gross.String()),
	)

	return &quotedomain.Result{
		Breakdown: quotedomain.Breakdown{
			Base:      quotedomain.Base{Net: base},
			Modifiers: quotedomain.Modifiers{Add: add, Items: items},
			Net:       net,
			VAT:       vat,
			Gross:     gross,
			Unit:      unit,
		},
		Debug: quotedomain.Debug{
			Service:        req.Slug,
			Qty:            req.Qty,
			Selection:      req.Selection,
			MainRowID:      mainRow.ID.String(),
			ModifierRowIDs: modifierRowIDs,
		},
	}, nil
}

// matchRows splits the catalog rows into the main-row candidate and the
// matching modifier rows. When several main rows match, the most specific
// one (most matched main keys) wins; at equal specificity the first row in
// catalog order is kept and the collision is logged.
func (s *Service) matchRows(
	slug string,
	rows []catalogdomain.PriceRow,
	keys classificationdomain.KeySet,
	selection map[string]string,
) (*catalogdomain.PriceRow, []*catalogdomain.PriceRow) {
	var mainRow *catalogdomain.PriceRow
	var mainSpecificity int
	var modifierRows []*catalogdomain.PriceRow

	for i := range rows {
		row := &rows[i]
		attrs := row.AttrMap()

		hasMain := anyKeyPresent(keys.Main, attrs)
		hasModifier := anyKeyPresent(keys.Modifier, attrs)

		if hasMain {
			matched, ok := matchSelection(selection, keys.Main, attrs)
			if !ok || matched == 0 {
				continue
			}
			switch {
			case mainRow == nil, matched > mainSpecificity:
				mainRow = row
				mainSpecificity = matched
			case matched == mainSpecificity:
				s.log.Warn("ambiguous main price row match, keeping first",
					zap.String("product_slug", slug),
					zap.String("kept_row_id", mainRow.ID.String()),
					zap.String("dropped_row_id", row.ID.String()),
				)
			}
			continue
		}

		if hasModifier {
			if matched, ok := matchSelection(selection, keys.Modifier, attrs); ok && matched > 0 {
				modifierRows = append(modifierRows, row)
			}
		}
	}

	return mainRow, modifierRows
}

// matchSelection compares the subset of the selection whose keys are both in
// the key set and present in the row attrs. The row matches only when that
// subset is non-empty and every value agrees.
func matchSelection(selection map[string]string, keySet []string, attrs map[string]string) (int, bool) {
	matched := 0
	for _, key := range keySet {
		chosen, inSelection := selection[key]
		if !inSelection {
			continue
		}
		rowValue, inAttrs := attrs[key]
		if !inAttrs {
			continue
		}
		if chosen != rowValue {
			return 0, false
		}
		matched++
	}
	return matched, matched > 0
}

// priceRow computes a row's total at the requested quantity according to
// its rule kind.
func priceRow(row *catalogdomain.PriceRow, qty int64) (decimal.Decimal, error) {
	qtyDec := decimal.NewFromInt(qty)

	switch row.RuleKind {
	case catalogdomain.RuleKindPerUnit:
		total := decimal.Zero
		if row.UnitAmount != nil {
			total = row.UnitAmount.Mul(qtyDec)
		}
		if row.SetupAmount != nil {
			total = total.Add(*row.SetupAmount)
		}
		return total, nil
	case catalogdomain.RuleKindFixed:
		if row.FixedAmount != nil {
			return *row.FixedAmount, nil
		}
		return decimal.Zero, nil
	default:
		unit, err := resolveTierRate(row.Tiers, qty)
		if err != nil {
			return decimal.Zero, err
		}
		return unit.Mul(qtyDec), nil
	}
}

// resolveTierRate picks the unit rate for a quantity: the tier with the
// largest qty not exceeding the request (boundary inclusive). Requests
// below the smallest tier charge that tier's rate at the requested
// quantity; the customer is never charged for the minimum-tier quantity.
func resolveTierRate(tiers []catalogdomain.PriceTier, qty int64) (decimal.Decimal, error) {
	if len(tiers) == 0 {
		return decimal.Zero, quotedomain.ErrNoTiers
	}

	sorted := make([]catalogdomain.PriceTier, len(tiers))
	copy(sorted, tiers)
	// Stable sort: of two tiers with equal qty, the first configured wins.
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Qty < sorted[j].Qty })

	selected := sorted[0]
	for _, tier := range sorted[1:] {
		if tier.Qty > qty {
			break
		}
		selected = tier
	}

	return selected.UnitAmount, nil
}

func stripReservedKeys(selection map[string]string) map[string]string {
	out := make(map[string]string, len(selection))
	for key, value := range selection {
		if reservedSelectionKeys[key] {
			continue
		}
		out[key] = value
	}
	return out
}

func anyKeyPresent(keys []string, attrs map[string]string) bool {
	for _, key := range keys {
		if _, ok := attrs[key]; ok {
			return true
		}
	}
	return false
}

// modifierDisplayName renders a modifier row as its non-internal attrs
// joined as "key: value" pairs.
func modifierDisplayName(attrs map[string]string) string {
	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		if strings.HasPrefix(key, "_") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+attrs[key])
	}
	return strings.Join(parts, ", ")
}

// displayValue capitalizes the first letter of a selection value for the
// breakdown item list ("same-day" -> "Same-day").
func displayValue(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
