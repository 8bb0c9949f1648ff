package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	"billing-backend/internal/apperr"
	"billing-backend/internal/models"
	"billing-backend/internal/repositories"
)

// Uploader stores product images and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type ProductService struct {
	products *repositories.ProductRepository
	uploads  Uploader
}

func NewProductService(products *repositories.ProductRepository, uploads Uploader) *ProductService {
	return &ProductService{products: products, uploads: uploads}
}

func (s *ProductService) Create(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	if req == nil || req.Name == "" || req.Quantity < 0 || req.Price.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}

	product := &models.Product{
		SupplierID: req.SupplierID,
		Name:       req.Name,
		Barcode:    req.Barcode,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Image:      req.Image,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, apperr.Wrap(err)
	}
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id int) (*models.Product, error) {
	product, err := s.products.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Newf(apperr.KindNotFound, "productNotFound", idsArg([]int{id}))
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, page, perPage int) ([]*models.Product, *models.PageMeta, error) {
	products, err := s.products.List(ctx, page, perPage)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	total, err := s.products.Count(ctx)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	deleted, err := s.products.CountDeleted(ctx)
	if err != nil {
		return nil, nil, apperr.Wrap(err)
	}
	return products, NewPageMeta(total, deleted, page, perPage), nil
}

func (s *ProductService) Update(ctx context.Context, id int, req *models.UpdateProductRequest) (*models.Product, error) {
	if req == nil || req.Name == "" || req.Quantity < 0 || req.Price.IsNegative() {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}

	product := &models.Product{
		ID:         id,
		SupplierID: req.SupplierID,
		Name:       req.Name,
		Barcode:    req.Barcode,
		Quantity:   req.Quantity,
		Price:      req.Price,
		Image:      req.Image,
	}
	err := s.products.Update(ctx, product)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Newf(apperr.KindNotFound, "productNotFound", idsArg([]int{id}))
	}
	if err != nil {
		return nil, apperr.Wrap(err)
	}
	return s.Get(ctx, id)
}

// StockIn adds units to the shelf outside the invoice flow.
func (s *ProductService) StockIn(ctx context.Context, id int, req *models.AdjustStockRequest) (*models.Product, error) {
	if req == nil || req.Quantity < 1 {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}
	return s.adjust(ctx, id, req.Quantity)
}

// StockOut removes units, refusing to bring the quantity below zero.
func (s *ProductService) StockOut(ctx context.Context, id int, req *models.AdjustStockRequest) (*models.Product, error) {
	if req == nil || req.Quantity < 1 {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}
	return s.adjust(ctx, id, -req.Quantity)
}

func (s *ProductService) adjust(ctx context.Context, id, delta int) (*models.Product, error) {
	product, err := s.products.Adjust(ctx, id, delta)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return nil, apperr.Newf(apperr.KindNotFound, "productNotFound", idsArg([]int{id}))
	case errors.Is(err, repositories.ErrStockGuard):
		return nil, apperr.Newf(apperr.KindBusinessRule, "productNotInStock", idsArg([]int{id}))
	case err != nil:
		return nil, apperr.Wrap(err)
	}
	log.Printf("[Product] Stock of %d adjusted by %d", id, delta)
	return product, nil
}

// UploadImage stores the image and records its URL on the product.
func (s *ProductService) UploadImage(ctx context.Context, id int, filename, contentType string, body io.Reader) (*models.Product, error) {
	if s.uploads == nil {
		return nil, apperr.New(apperr.KindValidation, "noDataProvided")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%d/%d%s", id, time.Now().UnixNano(), filepath.Ext(filename))
	url, err := s.uploads.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, apperr.Wrap(err)
	}

	if err := s.products.SetImage(ctx, id, url); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperr.Newf(apperr.KindNotFound, "productNotFound", idsArg([]int{id}))
		}
		return nil, apperr.Wrap(err)
	}
	return s.Get(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	err := s.products.SoftDelete(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return apperr.Newf(apperr.KindNotFound, "productNotFound", idsArg([]int{id}))
	}
	if err != nil {
		return apperr.Wrap(err)
	}
	return nil
}
