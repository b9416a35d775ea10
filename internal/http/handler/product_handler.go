package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hateco-vn/quotation-api/internal/auth"
	"github.com/hateco-vn/quotation-api/internal/domain"
	"github.com/hateco-vn/quotation-api/internal/mapper"
	"github.com/hateco-vn/quotation-api/internal/repository"
	"github.com/hateco-vn/quotation-api/internal/service"
	"go.uber.org/zap"
)

type ProductHandler struct {
	productService *service.ProductService
	logger         *zap.Logger
}

func NewProductHandler(productService *service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{productService: productService, logger: logger}
}

// List godoc
// @Summary List products
// @Description Catalog listing with optional category and text search. Hidden products appear only for admins asking for them.
// @Tags Products
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param categoryId query string false "Filter by category"
// @Param search query string false "Match against name and code"
// @Param includeHidden query bool false "Include hidden products (admin only)"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ProductDTO}
// @Security BearerAuth
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePaging(r)

	filters := repository.ProductFilters{
		Search: r.URL.Query().Get("search"),
	}
	if categoryID := r.URL.Query().Get("categoryId"); categoryID != "" {
		id, err := uuid.Parse(categoryID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid categoryId")
			return
		}
		filters.CategoryID = &id
	}
	if r.URL.Query().Get("includeHidden") == "true" {
		userCtx, ok := auth.FromContext(r.Context())
		filters.IncludeHidden = ok && userCtx.IsAdmin()
	}

	products, total, err := h.productService.List(r.Context(), filters, page, pageSize)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, paginated(mapper.ToProductDTOs(products), total, page, pageSize))
}

// Get godoc
// @Summary Get product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.ProductDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /products/{id} [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := h.productService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToProductDTO(product))
}

// ListCategories godoc
// @Summary List product categories
// @Tags Products
// @Produce json
// @Success 200 {array} domain.ProductCategoryDTO
// @Security BearerAuth
// @Router /products/categories [get]
// @Router /product-categories [get]
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.productService.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToProductCategoryDTOs(categories))
}

// Create godoc
// @Summary Create product
// @Description Adds a SKU to the catalog. Codes must be unique.
// @Tags Products
// @Accept json
// @Produce json
// @Param request body domain.CreateProductRequest true "Product data"
// @Success 201 {object} domain.ProductDTO
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.productService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, mapper.ToProductDTO(product))
}

// Update godoc
// @Summary Update product
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body domain.UpdateProductRequest true "Fields to update"
// @Success 200 {object} domain.ProductDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req domain.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	product, err := h.productService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToProductDTO(product))
}
