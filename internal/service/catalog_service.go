package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/i18n"
	"github.com/arianbazaar/storefront-api/internal/pricing"
	"github.com/arianbazaar/storefront-api/internal/repository"
)

type catalogService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repos *repository.Repositories, logger *zap.Logger) *catalogService {
	return &catalogService{
		repos:  repos,
		logger: logger,
	}
}

// GetProduct returns one product localized for the requested language,
// including its delivery options
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID, lang i18n.Language) (*ProductView, error) {
	product, err := s.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	options, err := s.repos.DeliveryOptions.ListByProductID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := projectProduct(product, lang)
	for _, option := range options {
		view.DeliveryOptions = append(view.DeliveryOptions, DeliveryOptionView{
			ID:            option.ID,
			Label:         option.Label.In(lang),
			Price:         option.Price,
			DeliveryHours: option.DeliveryHours,
		})
	}

	return view, nil
}

// ListProducts returns localized projections of active products
func (s *catalogService) ListProducts(ctx context.Context, filter repository.ProductFilter, lang i18n.Language) ([]*ProductView, error) {
	if filter.Status == nil {
		active := domain.ProductStatusActive
		filter.Status = &active
	}

	products, err := s.repos.Products.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, projectProduct(product, lang))
	}

	return views, nil
}

// ListCategories returns localized categories with their subcategories
func (s *catalogService) ListCategories(ctx context.Context, lang i18n.Language) ([]*CategoryView, error) {
	categories, err := s.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*CategoryView, 0, len(categories))
	for _, category := range categories {
		view := &CategoryView{
			ID:   category.ID,
			Name: category.Name.In(lang),
		}

		subs, err := s.repos.Categories.ListSubcategories(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			view.Subcategories = append(view.Subcategories, SubcategoryView{
				ID:   sub.ID,
				Name: sub.Name.In(lang),
			})
		}

		views = append(views, view)
	}

	return views, nil
}

// ListBlogs returns localized blog projections
func (s *catalogService) ListBlogs(ctx context.Context, publishedOnly bool, lang i18n.Language, limit, offset int) ([]*BlogView, error) {
	blogs, err := s.repos.Blogs.List(ctx, publishedOnly, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]*BlogView, 0, len(blogs))
	for _, blog := range blogs {
		views = append(views, &BlogView{
			ID:        blog.ID,
			Title:     blog.Title.In(lang),
			Body:      blog.Body.In(lang),
			Published: blog.Published,
		})
	}

	return views, nil
}

func projectProduct(product *domain.Product, lang i18n.Language) *ProductView {
	view := &ProductView{
		ID:             product.ID,
		SellerID:       product.SellerID,
		Name:           product.Name.In(lang),
		Description:    product.Description.In(lang),
		EffectivePrice: product.EffectivePrice(),
		Currency:       product.Currency,
		Stock:          product.Stock,
	}

	if original, ok := product.OriginalPrice(); ok {
		view.OriginalPrice = &original
		view.DiscountPercent = pricing.DiscountPercent(original, view.EffectivePrice)
	}

	return view
}
