package domain

import (
	"strings"

	"github.com/samber/lo"
)

type Product struct {
	ID        ID
	CompanyID ID
	Name      string
	Price     Money
	Audit     Audit
}

// ModifierGroup declares how many of its options an order may pick.
type ModifierGroup struct {
	ID           ID
	ProductID    ID
	Name         string
	MinSelection int
	MaxSelection int
	Options      []ModifierOption
}

type ModifierOption struct {
	ID         ID
	GroupID    ID
	Name       string
	PriceDelta Money
}

// SelectedModifier is the join between an order and an option, with the
// option price captured at selection time.
type SelectedModifier struct {
	OptionID ID
	GroupID  ID
	Price    Money
}

// ForeignOptionPolicy decides what happens to selected options that do not
// belong to any modifier group of the ordered product.
type ForeignOptionPolicy int

const (
	RejectForeignOptions ForeignOptionPolicy = iota
	IgnoreForeignOptions
)

// Selection is a validated, priced set of modifier choices.
type Selection struct {
	Modifiers []SelectedModifier
	Total     Money
	Ignored   []ID
}

// ValidateSelection counts the chosen options per group of the product and
// enforces each group's min/max bounds. Options that are not part of the
// product's groups are rejected or dropped from both the count and the price,
// depending on policy.
func ValidateSelection(groups []ModifierGroup, chosen []ModifierOption, policy ForeignOptionPolicy) (Selection, error) {
	chosen = lo.UniqBy(chosen, func(o ModifierOption) ID { return o.ID })

	owned := make(map[ID]ModifierGroup)
	for _, g := range groups {
		for _, o := range g.Options {
			owned[o.ID] = g
		}
	}

	mine, foreign := lo.FilterReject(chosen, func(o ModifierOption, _ int) bool {
		_, ok := owned[o.ID]
		return ok
	})
	if len(foreign) > 0 && policy == RejectForeignOptions {
		names := lo.Map(foreign, func(o ModifierOption, _ int) string { return o.Name })
		return Selection{}, NewRuleError(RuleForeignModifier,
			"modifier options [%s] do not belong to this product", strings.Join(names, ", "))
	}

	perGroup := lo.CountValuesBy(mine, func(o ModifierOption) ID { return owned[o.ID].ID })
	for _, g := range groups {
		n := perGroup[g.ID]
		if n < g.MinSelection {
			return Selection{}, NewRuleError(RuleModifierSelection,
				"modifier group %q requires at least %d option(s), got %d", g.Name, g.MinSelection, n)
		}
		if n > g.MaxSelection {
			return Selection{}, NewRuleError(RuleModifierSelection,
				"modifier group %q allows at most %d option(s), got %d", g.Name, g.MaxSelection, n)
		}
	}

	modifiers := lo.Map(mine, func(o ModifierOption, _ int) SelectedModifier {
		return SelectedModifier{OptionID: o.ID, GroupID: owned[o.ID].ID, Price: o.PriceDelta}
	})
	return Selection{
		Modifiers: modifiers,
		Total:     SumMoney(lo.Map(modifiers, func(m SelectedModifier, _ int) Money { return m.Price })...),
		Ignored:   lo.Map(foreign, func(o ModifierOption, _ int) ID { return o.ID }),
	}, nil
}
