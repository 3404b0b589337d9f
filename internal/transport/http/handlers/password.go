package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/usecase"
)

// PasswordHandler exposes the password recovery endpoints.
type PasswordHandler struct {
	resets *usecase.PasswordResetService
}

// NewPasswordHandler constructs PasswordHandler.
func NewPasswordHandler(resets *usecase.PasswordResetService) *PasswordHandler {
	return &PasswordHandler{resets: resets}
}

// RegisterRoutes binds the recovery routes. forgotMiddlewares run ahead of
// the forgot-password handler.
func (h *PasswordHandler) RegisterRoutes(r *gin.RouterGroup, forgotMiddlewares ...gin.HandlerFunc) {
	chain := append([]gin.HandlerFunc{}, forgotMiddlewares...)
	chain = append(chain, h.forgot)
	r.POST("/forgot-password", chain...)

	r.POST("/reset-password/:token", h.reset)
	r.GET("/check-token/:token", h.checkToken)
}

func (h *PasswordHandler) forgot(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}

	if err := h.resets.Forgot(c.Request.Context(), req.Email); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "Usuario no encontrado"},
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Correo de recuperación enviado"})
}

func (h *PasswordHandler) reset(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}

	err := h.resets.Reset(c.Request.Context(), c.Param("token"), req.Password, req.PasswordConfirm)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMissingFields, Status: http.StatusBadRequest, Message: "Faltan datos"},
			{Err: usecase.ErrPasswordMismatch, Status: http.StatusBadRequest, Message: "Las Contraseñas no son iguales"},
			{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "La contraseña debe tener al menos 7 caracteres, una mayúscula, un número y un carácter especial"},
			{Err: usecase.ErrTokenInvalid, Status: http.StatusBadRequest, Message: "Token invalido"},
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Contraseña actualizada correctamente"})
}

func (h *PasswordHandler) checkToken(c *gin.Context) {
	if err := h.resets.CheckToken(c.Request.Context(), c.Param("token")); err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrTokenNotFound, Status: http.StatusBadRequest, Message: "El token no existe"},
			{Err: usecase.ErrTokenInvalid, Status: http.StatusBadRequest, Message: "Token invalido"},
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Token valido"})
}
