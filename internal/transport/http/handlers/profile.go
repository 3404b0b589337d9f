package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/usecase"
)

// ProfileHandler exposes profile read and update endpoints.
type ProfileHandler struct {
	profiles *usecase.ProfileService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles *usecase.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterRoutes binds the profile routes under /profile; all require a session.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	profile := r.Group("/profile", requireAuth)
	profile.GET("/:id_user", h.get)
	profile.POST("/:id_user", h.update)
}

var profileErrorCases = []ErrorCase{
	{Err: usecase.ErrMissingFields, Status: http.StatusBadRequest, Message: "Faltan datos"},
	{Err: usecase.ErrUserNotFound, Status: http.StatusBadRequest, Message: "Usuario no encontrada."},
	{Err: usecase.ErrEmailTaken, Status: http.StatusBadRequest, Message: "El email ya está registrado"},
}

func (h *ProfileHandler) get(c *gin.Context) {
	user, invitations, err := h.profiles.Get(c.Request.Context(), c.Param("id_user"))
	if err != nil {
		RespondWithMappedError(c, err, profileErrorCases)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		Message: "Datos enviados",
		User:    newUserView(user, invitations),
	})
}

func (h *ProfileHandler) update(c *gin.Context) {
	avatar, filename, closeAvatar, err := formImage(c, "file")
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}
	defer closeAvatar()

	input := usecase.ProfileUpdateInput{
		UserID:   c.Param("id_user"),
		Name:     c.PostForm("name"),
		Email:    c.PostForm("email"),
		Avatar:   avatar,
		Filename: filename,
	}

	if err := h.profiles.Update(c.Request.Context(), input); err != nil {
		RespondWithMappedError(c, err, profileErrorCases)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Datos actualizados correctamente"})
}
