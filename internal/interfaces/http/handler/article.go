package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/trycco/storefront/internal/application/catalog"
)

// ArticleHandler handles the article admin endpoints, including the
// picture upload flow and the manual monthly sales reset.
type ArticleHandler struct {
	BaseHandler
	articles *catalogapp.ArticleService
}

func NewArticleHandler(articles *catalogapp.ArticleService) *ArticleHandler {
	return &ArticleHandler{articles: articles}
}

// List handles GET /articles?search=&category_id=&page=&page_size=
// @Summary      List articles
// @Description  Best sellers first unless another sort is chosen
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        search query string false "Search term"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        tag_id query string false "Tag ID" format(uuid)
// @Param        sort query string false "Sort order" Enums(best_selling, name, price_low, price_high, newest) default(best_selling)
// @Param        min_price query number false "Lowest price, inclusive"
// @Param        max_price query number false "Highest price, inclusive"
// @Param        page query int false "Page number" default(1) minimum(1)
// @Param        page_size query int false "Page size" default(20) minimum(1) maximum(100)
// @Success      200 {object} dto.Response{data=[]catalogapp.ArticleListItem,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/articles [get]
func (h *ArticleHandler) List(c *gin.Context) {
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
	tagID, ok := h.optionalUUIDQuery(c, "tag_id")
	if !ok {
		return
	}
	q.TagID = tagID

	page, err := h.articles.ListArticles(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetByID handles GET /articles/:id
// @Summary      Get article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ArticleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/articles/{id} [get]
func (h *ArticleHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "article", false)
	if !ok {
		return
	}
	article, err := h.articles.GetArticle(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, article)
}

// Create handles POST /articles
// @Summary      Create article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateArticleRequest true "Article"
// @Success      201 {object} dto.Response{data=catalogapp.ArticleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/articles [post]
func (h *ArticleHandler) Create(c *gin.Context) {
	var req catalogapp.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	article, err := h.articles.CreateArticle(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, article)
}

// Update handles PUT /articles/:id
// @Summary      Update article
// @Description  Changes only the fields that are set
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Param        request body catalogapp.UpdateArticleRequest true "Changes"
// @Success      200 {object} dto.Response{data=catalogapp.ArticleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/articles/{id} [put]
func (h *ArticleHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "article", false)
	if !ok {
		return
	}
	var req catalogapp.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	article, err := h.articles.UpdateArticle(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, article)
}

// Delete handles DELETE /articles/:id
// @Summary      Delete article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Success      204 "No Content"
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/articles/{id} [delete]
func (h *ArticleHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "article", false)
	if !ok {
		return
	}
	if err := h.articles.DeleteArticle(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RequestUpload handles POST /articles/:id/picture/upload-url and returns a
// presigned PUT URL plus the key to attach afterwards.
// @Summary      Request picture upload
// @Description  Returns a presigned PUT URL and the storage key to attach afterwards
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Param        request body catalogapp.PictureUploadRequest true "Picture"
// @Success      200 {object} dto.Response{data=catalogapp.PictureUploadResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/articles/{id}/picture/upload-url [post]
func (h *ArticleHandler) RequestUpload(c *gin.Context) {
	id, ok := h.parseID(c, "article", false)
	if !ok {
		return
	}
	var req catalogapp.PictureUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	upload, err := h.articles.RequestPictureUpload(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, upload)
}

// AttachPicture handles PUT /articles/:id/picture
// @Summary      Attach picture
// @Tags         articles
// @Accept       json
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Param        request body catalogapp.AttachPictureRequest true "Uploaded picture"
// @Success      200 {object} dto.Response{data=catalogapp.ArticleResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/articles/{id}/picture [put]
func (h *ArticleHandler) AttachPicture(c *gin.Context) {
	id, ok := h.parseID(c, "article", false)
	if !ok {
		return
	}
	var req catalogapp.AttachPictureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	article, err := h.articles.AttachPicture(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, article)
}

// ResetMonthlySales handles POST /articles/reset-monthly-sales
// @Summary      Reset monthly sales
// @Description  Zeroes the monthly sales counter of every article
// @Tags         articles
// @Accept       json
// @Produce      json
// @Success      200 {object} dto.Response{data=catalogapp.MonthlyResetResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/api/v1/articles/reset-monthly-sales [post]
func (h *ArticleHandler) ResetMonthlySales(c *gin.Context) {
	result, err := h.articles.ResetMonthlySales(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
