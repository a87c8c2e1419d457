package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/sarva/backend/internal/application/catalog"
	"github.com/sarva/backend/internal/domain/catalog"
)

// ProductHandler handles catalog product endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// Search lists products by code, name, cycle or company
// GET /products?code=&name=&cycle=&company=
func (h *ProductHandler) Search(c *gin.Context) {
	var filter catalogapp.ProductSearchFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	products, err := h.productService.Search(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Create adds a product to a cycle given by name
// POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), caller(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update edits a product. Admin only.
// PUT /products/:codigo/cycles/:cycleId
func (h *ProductHandler) Update(c *gin.Context) {
	key, ok := h.productKey(c)
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), caller(c), key, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product no sale line references
// DELETE /products/:codigo/cycles/:cycleId
func (h *ProductHandler) Delete(c *gin.Context) {
	key, ok := h.productKey(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), caller(c), key); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ProductHandler) productKey(c *gin.Context) (catalog.ProductKey, bool) {
	code, ok := h.pathID(c, "codigo")
	if !ok {
		return catalog.ProductKey{}, false
	}
	cycleID, ok := h.pathID(c, "cycleId")
	if !ok {
		return catalog.ProductKey{}, false
	}
	return catalog.ProductKey{Code: code, CycleID: cycleID}, true
}
