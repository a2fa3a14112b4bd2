package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"bookcatalog/internal/domains/book/model"
	"bookcatalog/internal/domains/book/service"
	"bookcatalog/internal/shared/response"
	"bookcatalog/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

// ListCategories GET /books/categories
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if model.HandleBookError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// ListBooks GET /books
//
// Query: pageSize, pageIndex (or pageNum), sortDirection (or sortOrder) and repeated
// categories (or bookCategories). Missing values fall back to size 10, page 1, ascending.
func (h *Handler) ListBooks(c *gin.Context) {
	req, err := parsePageRequest(c)
	if model.HandleBookError(c, err) {
		return
	}

	page, err := h.service.ListPage(c.Request.Context(), req)
	if model.HandleBookError(c, err) {
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, page, &response.Meta{
		Page:       page.PageIndex,
		Limit:      page.PageSize,
		Total:      page.TotalCount,
		TotalPages: page.TotalPages(),
	})
}

// ExportBooks GET /books/export streams the filtered, sorted catalog as an xlsx file.
func (h *Handler) ExportBooks(c *gin.Context) {
	req, err := parsePageRequest(c)
	if model.HandleBookError(c, err) {
		return
	}

	f, err := h.service.ExportBooks(c.Request.Context(), req.Categories, req.Sort)
	if model.HandleBookError(c, err) {
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("books_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		logger.Error("failed to write export workbook", err)
	}
}

// GetBook GET /books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	book, err := h.service.GetBook(c.Request.Context(), id)
	if model.HandleBookError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, book)
}

// CreateBook POST /books
func (h *Handler) CreateBook(c *gin.Context) {
	var fields model.BookFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), fields)
	if model.HandleBookError(c, err) {
		return
	}
	response.Success(c, http.StatusCreated, book)
}

// UpdateBook PUT /books/:id replaces every field.
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}

	var fields model.BookFields
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, fields)
	if model.HandleBookError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, book)
}

// DeleteBook DELETE /books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	if model.HandleBookError(c, h.service.DeleteBook(c.Request.Context(), id)) {
		return
	}
	response.NoContent(c)
}

func bookID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "Invalid book id")
		return 0, false
	}
	return id, true
}

func parsePageRequest(c *gin.Context) (model.PageRequest, error) {
	req := model.NewPageRequest()
	details := map[string]string{}

	if v, ok := firstQuery(c, "pageSize"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			details["pageSize"] = "must be an integer"
		}
		req.PageSize = n
	}
	if v, ok := firstQuery(c, "pageIndex", "pageNum"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			details["pageIndex"] = "must be an integer"
		}
		req.PageIndex = n
	}
	if v, ok := firstQuery(c, "sortDirection", "sortOrder"); ok {
		req.Sort = model.ParseSortDirection(v)
	}
	req.Categories = append(c.QueryArray("categories"), c.QueryArray("bookCategories")...)

	if len(details) > 0 {
		return req, &model.ValidationError{Message: "invalid page request", Details: details}
	}
	return req, req.Validate()
}

// firstQuery returns the value of the first key present in the query string.
func firstQuery(c *gin.Context, keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := c.GetQuery(key); ok {
			return v, true
		}
	}
	return "", false
}
