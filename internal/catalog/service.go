package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/lmorales/shopworks-backend/pkg/db"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/lmorales/shopworks-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog management and storefront read operations.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	UpdateCategory(ctx context.Context, categoryID uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error
}

// ListProductsInput holds the storefront listing filters.
type ListProductsInput struct {
	CategorySlug  string
	IncludeHidden bool
	Limit         int
	Cursor        string
}

// ColorInput is one variant in a create/update payload.
type ColorInput struct {
	Name     string
	Hex      string
	Stock    int
	Images   []string
	Position int
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	CategoryID  *uuid.UUID
	Name        string
	Slug        string
	Description *string
	Price       decimal.Decimal
	SalePercent int
	IsActive    bool
	Colors      []ColorInput
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	CategoryID  *uuid.UUID
	Name        *string
	Slug        *string
	Description *string
	Price       *decimal.Decimal
	SalePercent *int
	IsActive    *bool
	Colors      *[]ColorInput
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name     string
	Slug     string
	Position int
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// ListProducts returns one storefront page; hidden products only appear for admins.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Limit)
	products, err := s.repo.ListProducts(ctx, ListFilter{
		CategorySlug: input.CategorySlug,
		ActiveOnly:   !input.IncludeHidden,
		Limit:        limit,
		Cursor:       cursor,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	result := &ProductListResult{Products: make([]ProductDTO, 0, len(products))}
	hasMore := len(products) > limit
	if hasMore {
		products = products[:limit]
	}
	for i := range products {
		result.Products = append(result.Products, *toProductDTO(&products[i]))
	}
	if hasMore {
		last := products[len(products)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

// GetProductBySlug loads one product for the storefront detail page.
func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		return nil, mapProductLookupErr(err)
	}
	return toProductDTO(product), nil
}

// GetProduct loads one product by ID.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, mapProductLookupErr(err)
	}
	return toProductDTO(product), nil
}

// CreateProduct creates the product with its color variants in one transaction.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductFields(input.Name, input.Slug, input.Price, input.SalePercent); err != nil {
		return nil, err
	}
	if err := validateColors(input.Colors); err != nil {
		return nil, err
	}

	product := &models.Product{
		CategoryID:  input.CategoryID,
		Name:        strings.TrimSpace(input.Name),
		Slug:        strings.TrimSpace(input.Slug),
		Description: input.Description,
		Price:       input.Price.Round(2),
		SalePercent: input.SalePercent,
		IsActive:    input.IsActive,
		Colors:      buildColors(input.Colors),
	}

	if _, err := s.repo.CreateProduct(ctx, product); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	created, err := s.repo.FindProductByID(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload product")
	}
	return toProductDTO(created), nil
}

// UpdateProduct applies the provided fields; a Colors value replaces every variant.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, mapProductLookupErr(err)
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Slug != nil {
		product.Slug = strings.TrimSpace(*input.Slug)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.Price != nil {
		product.Price = input.Price.Round(2)
	}
	if input.SalePercent != nil {
		product.SalePercent = *input.SalePercent
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := validateProductFields(product.Name, product.Slug, product.Price, product.SalePercent); err != nil {
		return nil, err
	}
	if input.Colors != nil {
		if err := validateColors(*input.Colors); err != nil {
			return nil, err
		}
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "product slug already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		if input.Colors != nil {
			colors := buildColors(*input.Colors)
			for i := range colors {
				colors[i].ProductID = product.ID
			}
			if err := txRepo.ReplaceColors(ctx, product.ID, colors); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace colors")
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload product")
	}
	return toProductDTO(updated), nil
}

// DeleteProduct removes the product and its variants.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

// ListCategories returns every category in display order.
func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list categories")
	}
	out := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *toCategoryDTO(&categories[i]))
	}
	return out, nil
}

// CreateCategory inserts a category.
func (s *service) CreateCategory(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	if err := validateCategory(input); err != nil {
		return nil, err
	}
	category := &models.Category{
		Name:     strings.TrimSpace(input.Name),
		Slug:     strings.TrimSpace(input.Slug),
		Position: input.Position,
	}
	if _, err := s.repo.CreateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return toCategoryDTO(category), nil
}

// UpdateCategory replaces the category fields.
func (s *service) UpdateCategory(ctx context.Context, categoryID uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	if err := validateCategory(input); err != nil {
		return nil, err
	}
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load category")
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Slug = strings.TrimSpace(input.Slug)
	category.Position = input.Position

	if _, err := s.repo.UpdateCategory(ctx, category); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "category slug already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update category")
	}
	return toCategoryDTO(category), nil
}

// DeleteCategory removes the category; linked products keep a NULL category.
func (s *service) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	return nil
}

func mapProductLookupErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
}

func validateProductFields(name, slug string, price decimal.Decimal, salePercent int) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(slug) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if salePercent < 0 || salePercent > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale_percent must be between 0 and 100")
	}
	return nil
}

func validateColors(colors []ColorInput) error {
	seen := make(map[string]struct{}, len(colors))
	for _, color := range colors {
		if strings.TrimSpace(color.Hex) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "color hex is required")
		}
		if strings.TrimSpace(color.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "color name is required")
		}
		if color.Stock < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "color stock cannot be negative")
		}
		if _, dup := seen[color.Hex]; dup {
			return pkgerrors.New(
				pkgerrors.CodeValidation,
				fmt.Sprintf("duplicate color hex %s", color.Hex),
			)
		}
		seen[color.Hex] = struct{}{}
	}
	return nil
}

func validateCategory(input CategoryInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Slug) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	return nil
}

func buildColors(inputs []ColorInput) []models.ProductColor {
	colors := make([]models.ProductColor, 0, len(inputs))
	for i, input := range inputs {
		position := input.Position
		if position == 0 {
			position = i
		}
		colors = append(colors, models.ProductColor{
			Name:     strings.TrimSpace(input.Name),
			Hex:      strings.TrimSpace(input.Hex),
			Stock:    input.Stock,
			Images:   pq.StringArray(input.Images),
			Position: position,
		})
	}
	return colors
}
