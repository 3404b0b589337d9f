package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/usecase"
)

// HomeHandler exposes home CRUD endpoints.
type HomeHandler struct {
	homes *usecase.HomeService
}

// NewHomeHandler constructs HomeHandler.
func NewHomeHandler(homes *usecase.HomeService) *HomeHandler {
	return &HomeHandler{homes: homes}
}

// RegisterRoutes binds the home routes under /home; all require a session.
func (h *HomeHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	home := r.Group("/home", requireAuth)
	home.POST("/create-home", h.create)
	home.GET("/user-home/:user_id", h.listByUser)
	home.GET("/:id_hogar", h.get)
	home.POST("/:id_hogar", h.update)
	home.DELETE("/:id_hogar", h.delete)
}

func (h *HomeHandler) create(c *gin.Context) {
	userID := c.PostForm("user_id")
	name := c.PostForm("name")
	if userID == "" || name == "" {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}

	image, filename, closeImage, err := formImage(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}
	defer closeImage()

	if err := h.homes.Create(c.Request.Context(), userID, name, image, filename); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMissingFields, Status: http.StatusBadRequest, Message: "Faltan datos"},
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Hogar creado correctamentename"})
}

func (h *HomeHandler) listByUser(c *gin.Context) {
	homes, err := h.homes.ListByUser(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMissingFields, Status: http.StatusBadRequest, Message: "Faltan datos"},
			{Err: usecase.ErrUserNotFound, Status: http.StatusBadRequest, Message: "No existe ese usuario"},
		})
		return
	}

	views := make([]HomeView, 0, len(homes))
	for _, home := range homes {
		views = append(views, newHomeView(home))
	}
	c.JSON(http.StatusOK, views)
}

func (h *HomeHandler) get(c *gin.Context) {
	detail, err := h.homes.Get(c.Request.Context(), c.Param("id_hogar"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMissingFields, Status: http.StatusBadRequest, Message: "Faltan datos"},
			{Err: usecase.ErrHomeNotFound, Status: http.StatusBadRequest, Message: "El hogar no existe"},
		})
		return
	}

	c.JSON(http.StatusOK, newHomeDetailResponse(detail))
}

func (h *HomeHandler) update(c *gin.Context) {
	image, filename, closeImage, err := formImage(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}
	defer closeImage()

	input := usecase.HomeUpdateInput{
		HomeID:      c.Param("id_hogar"),
		Name:        c.PostForm("name"),
		ImageDelete: c.PostForm("imageDelete") == "true",
		Image:       image,
		Filename:    filename,
	}

	if err := h.homes.Update(c.Request.Context(), input); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMissingFields, Status: http.StatusBadRequest, Message: "Faltan datos"},
			{Err: usecase.ErrHomeNotFound, Status: http.StatusBadRequest, Message: "El hogar no existe"},
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Hogar actualizado correctamentename"})
}

func (h *HomeHandler) delete(c *gin.Context) {
	if err := h.homes.Delete(c.Request.Context(), c.Param("id_hogar")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMissingFields, Status: http.StatusBadRequest, Message: "Faltan datos"},
			{Err: usecase.ErrHomeNotFound, Status: http.StatusBadRequest, Message: "El hogar no existe"},
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Hogar borrado correctamentename"})
}
