package service

import (
	"context"
	"errors"

	catalogerrors "slotify/internal/catalog/errors"
	catalogrepo "slotify/internal/catalog/repository"
	"slotify/pkg/config"
	apperrors "slotify/pkg/errors"
	"slotify/pkg/model"
)

// ComputePrice derives the auditable price breakdown for a menu with
// the selected options and an optionally nominated resource. The
// computation is pure and deterministic. Option ids not belonging to
// the menu are skipped; membership is validated upstream. All amounts
// are integer currency units, so division truncates toward zero; the
// total is clamped at zero only at the final step.
func ComputePrice(menu *model.Menu, optionIDs []string, resource *model.Resource) model.PricingBreakdown {
	var optionsTotal int64
	for _, id := range optionIDs {
		if opt, ok := menu.Option(id); ok {
			optionsTotal += opt.Price
		}
	}

	var resourceFee, nominationFee int64
	if resource != nil {
		// Rate is per hour; fee covers the base duration only.
		resourceFee = int64(menu.BaseDurationMin) * resource.HourlyRateDiff / 60
		nominationFee = resource.NominationFee
	}

	total := menu.BasePrice + optionsTotal + resourceFee + nominationFee
	if total < 0 {
		total = 0
	}

	return model.PricingBreakdown{
		BasePrice:     menu.BasePrice,
		OptionsTotal:  optionsTotal,
		ResourceFee:   resourceFee,
		NominationFee: nominationFee,
		Total:         total,
	}
}

type PricingService interface {
	Quote(ctx context.Context, storeID string, req *model.PriceQuoteRequest) (*model.PricingBreakdown, error)
}

type pricingService struct {
	menuRepo     catalogrepo.MenuRepository
	resourceRepo catalogrepo.ResourceRepository
	cfg          *config.Config
}

func NewPricingService(
	menuRepo catalogrepo.MenuRepository,
	resourceRepo catalogrepo.ResourceRepository,
	cfg *config.Config,
) PricingService {
	return &pricingService{
		menuRepo:     menuRepo,
		resourceRepo: resourceRepo,
		cfg:          cfg,
	}
}

// Quote resolves the catalog entities and prices the selection without
// reserving anything.
func (s *pricingService) Quote(ctx context.Context, storeID string, req *model.PriceQuoteRequest) (*model.PricingBreakdown, error) {
	menu, err := s.menuRepo.FindByID(ctx, storeID, req.MenuID)
	if err != nil {
		if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("Menu", req.MenuID)
		}
		return nil, apperrors.Unavailable("Catalog store", err)
	}
	if !menu.IsActive {
		return nil, apperrors.NotFoundWithID("Menu", req.MenuID)
	}

	var resource *model.Resource
	if req.ResourceID != "" {
		resource, err = s.resourceRepo.FindByID(ctx, storeID, req.ResourceID)
		if err != nil {
			if errors.Is(err, catalogerrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrInvalidID) {
				return nil, apperrors.NotFoundWithID("Resource", req.ResourceID)
			}
			return nil, apperrors.Unavailable("Catalog store", err)
		}
		if !resource.IsActive {
			return nil, apperrors.ResourceInactive(req.ResourceID)
		}
	}

	breakdown := ComputePrice(menu, req.OptionIDs, resource)
	return &breakdown, nil
}
