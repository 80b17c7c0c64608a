package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/trycco/storefront/internal/application/catalog"
)

// CategoryHandler handles the category and subcategory admin endpoints
type CategoryHandler struct {
	BaseHandler
	taxonomy *catalogapp.TaxonomyService
}

func NewCategoryHandler(taxonomy *catalogapp.TaxonomyService) *CategoryHandler {
	return &CategoryHandler{taxonomy: taxonomy}
}

// List handles GET /categories?search=&page=&page_size=
// @Summary      List categories
// @Description  Returns categories ordered by name
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1) minimum(1)
// @Param        page_size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalogapp.CategoryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	var q catalogapp.AdminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}
	page, err := h.taxonomy.ListCategories(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetByID handles GET /categories/:id
// @Summary      Get category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "category", false)
	if !ok {
		return
	}
	category, err := h.taxonomy.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Create handles POST /categories
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Category"
// @Success      201 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	category, err := h.taxonomy.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Update handles PUT /categories/:id
// @Summary      Update category
// @Description  Changes only the fields that are set
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body catalogapp.UpdateCategoryRequest true "Changes"
// @Success      200 {object} dto.Response{data=catalogapp.CategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "category", false)
	if !ok {
		return
	}
	var req catalogapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	category, err := h.taxonomy.UpdateCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete handles DELETE /categories/:id
// @Summary      Delete category
// @Description  Deletes the category and its subcategories
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "category", false)
	if !ok {
		return
	}
	if err := h.taxonomy.DeleteCategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListSubCategories handles GET /subcategories?category_id=
// @Summary      List subcategories
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        category_id query string false "Parent category ID" format(uuid)
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1) minimum(1)
// @Param        page_size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalogapp.SubCategoryResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/subcategories [get]
func (h *CategoryHandler) ListSubCategories(c *gin.Context) {
	var q catalogapp.AdminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}
	categoryID, ok := h.optionalUUIDQuery(c, "category_id")
	if !ok {
		return
	}
	q.CategoryID = categoryID

	page, err := h.taxonomy.ListSubCategories(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// CreateSubCategory handles POST /subcategories
// @Summary      Create subcategory
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.SubCategoryRequest true "Subcategory"
// @Success      201 {object} dto.Response{data=catalogapp.SubCategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/subcategories [post]
func (h *CategoryHandler) CreateSubCategory(c *gin.Context) {
	var req catalogapp.SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	sub, err := h.taxonomy.CreateSubCategory(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sub)
}

// UpdateSubCategory handles PUT /subcategories/:id
// @Summary      Update subcategory
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Subcategory ID" format(uuid)
// @Param        request body catalogapp.SubCategoryRequest true "Subcategory"
// @Success      200 {object} dto.Response{data=catalogapp.SubCategoryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/subcategories/{id} [put]
func (h *CategoryHandler) UpdateSubCategory(c *gin.Context) {
	id, ok := h.parseID(c, "subcategory", false)
	if !ok {
		return
	}
	var req catalogapp.SubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	sub, err := h.taxonomy.UpdateSubCategory(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// DeleteSubCategory handles DELETE /subcategories/:id
// @Summary      Delete subcategory
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Subcategory ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/subcategories/{id} [delete]
func (h *CategoryHandler) DeleteSubCategory(c *gin.Context) {
	id, ok := h.parseID(c, "subcategory", false)
	if !ok {
		return
	}
	if err := h.taxonomy.DeleteSubCategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
