package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/trycco/storefront/internal/application/catalog"
)

// TagHandler handles the tag admin endpoints
type TagHandler struct {
	BaseHandler
	taxonomy *catalogapp.TaxonomyService
}

func NewTagHandler(taxonomy *catalogapp.TaxonomyService) *TagHandler {
	return &TagHandler{taxonomy: taxonomy}
}

// List handles GET /tags. Each tag carries its article count.
// @Summary      List tags
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page number" default(1) minimum(1)
// @Param        page_size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalogapp.TagResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/tags [get]
func (h *TagHandler) List(c *gin.Context) {
	var q catalogapp.AdminListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.ValidationError(c, err)
		return
	}
	page, err := h.taxonomy.ListTags(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// Create handles POST /tags
// @Summary      Create tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.TagRequest true "Tag"
// @Success      201 {object} dto.Response{data=catalogapp.TagResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/tags [post]
func (h *TagHandler) Create(c *gin.Context) {
	var req catalogapp.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tag, err := h.taxonomy.CreateTag(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tag)
}

// Update handles PUT /tags/:id
// @Summary      Rename tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        id path string true "Tag ID" format(uuid)
// @Param        request body catalogapp.TagRequest true "Tag"
// @Success      200 {object} dto.Response{data=catalogapp.TagResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/tags/{id} [put]
func (h *TagHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "tag", false)
	if !ok {
		return
	}
	var req catalogapp.TagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	tag, err := h.taxonomy.UpdateTag(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tag)
}

// Delete handles DELETE /tags/:id
// @Summary      Delete tag
// @Tags         tags
// @Accept       json
// @Produce      json
// @Param        id path string true "Tag ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/tags/{id} [delete]
func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "tag", false)
	if !ok {
		return
	}
	if err := h.taxonomy.DeleteTag(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
