package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/openinventory/inventory-admin/internal/apperr"
	"github.com/openinventory/inventory-admin/internal/auth"
	"github.com/openinventory/inventory-admin/internal/service"
)

type createProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	ImageURL    *string  `json:"image_url"`
}

type sellProductRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func (s *Service) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.inventorySvc.ListProducts(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, products)
}

func (s *Service) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	product, err := s.inventorySvc.GetProduct(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, product)
}

func (s *Service) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	identity, _ := auth.FromContext(r.Context())

	product, err := s.inventorySvc.CreateProduct(r.Context(), identity, service.CreateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusCreated, product)
}

func (s *Service) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	identity, _ := auth.FromContext(r.Context())

	product, err := s.inventorySvc.UpdateProduct(r.Context(), identity, id, service.UpdateProductParams{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, product)
}

func (s *Service) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := productID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	identity, _ := auth.FromContext(r.Context())

	if err := s.inventorySvc.DeleteProduct(r.Context(), identity, id); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (s *Service) sellProduct(w http.ResponseWriter, r *http.Request) {
	var req sellProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, apperr.ValidationErr.WrapParent(err))
		return
	}

	identity, _ := auth.FromContext(r.Context())

	product, err := s.inventorySvc.SellProduct(r.Context(), identity, service.SellProductParams{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, product)
}

func productID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, apperr.ValidationErr.WrapParent(err).WithMsg("invalid product id")
	}
	return id, nil
}
