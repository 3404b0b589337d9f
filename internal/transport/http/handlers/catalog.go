package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/usecase"
)

// CatalogHandler exposes item and list creation endpoints.
type CatalogHandler struct {
	catalog *usecase.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *usecase.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes binds the item and list routes; all require a session.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	r.POST("/item/create-item", requireAuth, h.createItem)
	r.POST("/list/create-list", requireAuth, h.createList)
}

var catalogErrorCases = []ErrorCase{
	{Err: usecase.ErrMissingFields, Status: http.StatusBadRequest, Message: "Faltan datos"},
	{Err: usecase.ErrHomeNotFound, Status: http.StatusBadRequest, Message: "El hogar no existe"},
}

func (h *CatalogHandler) createItem(c *gin.Context) {
	image, filename, closeImage, err := formImage(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}
	defer closeImage()

	input := usecase.ItemInput{
		HomeID:      c.PostForm("hogar_id"),
		Name:        c.PostForm("name"),
		Description: c.PostForm("description"),
		Price:       c.PostForm("price"),
		Categories:  c.PostForm("categories"),
		Image:       image,
		Filename:    filename,
	}

	item, err := h.catalog.CreateItem(c.Request.Context(), input)
	if err != nil {
		RespondWithMappedError(c, err, catalogErrorCases)
		return
	}

	c.JSON(http.StatusOK, ItemResponse{
		Message: "Item creado correctamente",
		Item:    newItemView(*item),
	})
}

func (h *CatalogHandler) createList(c *gin.Context) {
	list, err := h.catalog.CreateList(c.Request.Context(), c.PostForm("hogar_id"), c.PostForm("name"))
	if err != nil {
		RespondWithMappedError(c, err, catalogErrorCases)
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Message: "Lista creada correctamente",
		List:    newListView(*list),
	})
}
