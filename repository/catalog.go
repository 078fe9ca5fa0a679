package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-ops/domain"
	"github.com/yeremiapane/restaurant-ops/models"
)

// Catalog reads products and their modifier groups. The engine never writes
// the catalog; menu management does.
type Catalog struct{ store }

func (s *Catalog) GetProduct(ctx context.Context, id domain.ID) (domain.Product, error) {
	var row models.Product
	if err := first(s.conn(ctx), &row, "product", id); err != nil {
		return domain.Product{}, err
	}
	price, err := domain.NewMoney(row.Price)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d price: %w", row.ID, err)
	}
	return domain.Product{
		ID:        domain.ID(row.ID),
		CompanyID: domain.ID(row.CompanyID),
		Name:      row.Name,
		Price:     price,
		Audit:     fromAudit(row.AuditFields),
	}, nil
}

func (s *Catalog) GetGroupsForProduct(ctx context.Context, productID domain.ID) ([]domain.ModifierGroup, error) {
	var rows []models.ProductModifierGroup
	if err := s.conn(ctx).Where("product_id = ?", uint(productID)).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list modifier groups of product %d: %w", productID, err)
	}
	return lo.Map(rows, func(g models.ProductModifierGroup, _ int) domain.ModifierGroup {
		return domain.ModifierGroup{
			ID:           domain.ID(g.ID),
			ProductID:    domain.ID(g.ProductID),
			Name:         g.Name,
			MinSelection: g.MinSelection,
			MaxSelection: g.MaxSelection,
		}
	}), nil
}

func (s *Catalog) GetOptionsForGroup(ctx context.Context, groupID domain.ID) ([]domain.ModifierOption, error) {
	var rows []models.ProductModifierOption
	if err := s.conn(ctx).Where("group_id = ?", uint(groupID)).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list options of modifier group %d: %w", groupID, err)
	}
	return toOptions(rows)
}

// GetOptionsByIDs returns the options that exist; callers compare the result
// with what they asked for.
func (s *Catalog) GetOptionsByIDs(ctx context.Context, ids []domain.ID) ([]domain.ModifierOption, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.ProductModifierOption
	raw := lo.Map(ids, func(id domain.ID, _ int) uint { return uint(id) })
	err := s.conn(ctx).Where("id IN ?", raw).Order("id").Find(&rows).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load modifier options: %w", err)
	}
	return toOptions(rows)
}

func toOptions(rows []models.ProductModifierOption) ([]domain.ModifierOption, error) {
	options := make([]domain.ModifierOption, 0, len(rows))
	for _, o := range rows {
		delta, err := domain.NewMoney(o.PriceDelta)
		if err != nil {
			return nil, fmt.Errorf("modifier option %d price: %w", o.ID, err)
		}
		options = append(options, domain.ModifierOption{
			ID:         domain.ID(o.ID),
			GroupID:    domain.ID(o.GroupID),
			Name:       o.Name,
			PriceDelta: delta,
		})
	}
	return options, nil
}
