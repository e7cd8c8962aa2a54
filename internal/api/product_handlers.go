package api

import (
	"errors"
	"net/http"

	"github.com/product-catalog/internal/model"
)

const productNotFound = "product not found"

// ListProducts godoc
// @Summary List products
// @Description List every product, newest first
// @Tags Products
// @Produce json
// @Success 200 {array} model.Product
// @Failure 500 {object} ErrorResponse "Server error"
// @Router /products [get]
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list products", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// ListAvailableProducts godoc
// @Summary List available products
// @Description List only products marked as available, newest first
// @Tags Products
// @Produce json
// @Success 200 {array} model.Product
// @Failure 500 {object} ErrorResponse "Server error"
// @Router /products/available [get]
func (h *Handler) ListAvailableProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListAvailable(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "failed to list available products", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to fetch products")
		return
	}

	respondJSON(w, http.StatusOK, products)
}

// CreateProduct godoc
// @Summary Create a product
// @Description Create a product; id and timestamps are assigned by the server
// @Tags Products
// @Accept json
// @Produce json
// @Param request body model.ProductInput true "Product"
// @Success 201 {object} model.Product
// @Failure 400 {object} map[string][]string "Field errors"
// @Router /products [post]
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		h.respondProductError(w, r, err)
		return
	}

	product, err := h.catalog.Create(r.Context(), in)
	if err != nil {
		h.respondProductError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

// GetProduct godoc
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} ErrorResponse "Product not found"
// @Router /products/{id} [get]
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusNotFound, productNotFound)
		return
	}

	product, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.respondProductError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// UpdateProduct godoc
// @Summary Replace a product
// @Description Update every field of a product; name and price are required
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body model.ProductInput true "Product"
// @Success 200 {object} model.Product
// @Failure 400 {object} map[string][]string "Field errors"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Router /products/{id} [put]
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusNotFound, productNotFound)
		return
	}

	var in model.ProductInput
	if err := decodeJSON(r, &in); err != nil {
		h.respondProductError(w, r, err)
		return
	}

	product, err := h.catalog.Update(r.Context(), id, in)
	if err != nil {
		h.respondProductError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// PatchProduct godoc
// @Summary Partially update a product
// @Description Update only the fields present in the body
// @Tags Products
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body model.ProductPatch true "Fields to change"
// @Success 200 {object} model.Product
// @Failure 400 {object} map[string][]string "Field errors"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Router /products/{id} [patch]
func (h *Handler) PatchProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusNotFound, productNotFound)
		return
	}

	var patch model.ProductPatch
	if err := decodeJSON(r, &patch); err != nil {
		h.respondProductError(w, r, err)
		return
	}

	product, err := h.catalog.PartialUpdate(r.Context(), id, patch)
	if err != nil {
		h.respondProductError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// DeleteProduct godoc
// @Summary Delete a product
// @Tags Products
// @Param id path int true "Product ID"
// @Success 204 "Deleted"
// @Failure 404 {object} ErrorResponse "Product not found"
// @Router /products/{id} [delete]
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondError(w, http.StatusNotFound, productNotFound)
		return
	}

	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.respondProductError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// respondProductError maps catalog errors to responses. Validation failures
// use the field -> messages body.
func (h *Handler) respondProductError(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := model.IsValidationError(err); ok {
		respondJSON(w, http.StatusBadRequest, ve.Fields)
		return
	}
	if errors.Is(err, model.ErrNotFound) {
		respondError(w, http.StatusNotFound, productNotFound)
		return
	}

	if errors.Is(err, errInvalidBody) {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.log.ErrorContext(r.Context(), "product request failed", "error", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}
