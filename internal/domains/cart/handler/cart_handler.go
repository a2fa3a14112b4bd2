package cart

import (
	"net/http"
	"strconv"

	bookmodel "bookcatalog/internal/domains/book/model"
	"bookcatalog/internal/domains/cart/service"
	"bookcatalog/internal/shared/middleware"
	"bookcatalog/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

type AddItemRequest struct {
	BookID int64 `json:"book_id" binding:"required,gt=0"`
}

// GetCart GET /cart
func (h *Handler) GetCart(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.View(middleware.GetSessionID(c)))
}

// AddItem POST /cart/items
func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: book_id must be a positive integer")
		return
	}

	summary, err := h.service.AddItem(c.Request.Context(), middleware.GetSessionID(c), req.BookID)
	if bookmodel.HandleBookError(c, err) {
		return
	}
	response.Success(c, http.StatusOK, summary)
}

// RemoveItem DELETE /cart/items/:bookId. Removing a book that is not in the cart succeeds.
func (h *Handler) RemoveItem(c *gin.Context) {
	bookID, err := strconv.ParseInt(c.Param("bookId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid book id")
		return
	}
	response.Success(c, http.StatusOK, h.service.RemoveItem(middleware.GetSessionID(c), bookID))
}

// Checkout POST /cart/checkout
func (h *Handler) Checkout(c *gin.Context) {
	response.Success(c, http.StatusOK, h.service.Checkout(middleware.GetSessionID(c)))
}

// ClearCart DELETE /cart ends the session's cart.
func (h *Handler) ClearCart(c *gin.Context) {
	h.service.End(middleware.GetSessionID(c))
	response.NoContent(c)
}
