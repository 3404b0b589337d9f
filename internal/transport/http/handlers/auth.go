package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/transport/http/middleware"
	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/usecase"
)

// registrationErrorCases maps the shared registration validation sentinels.
// The messages match the API contract verbatim, typos included.
var registrationErrorCases = []ErrorCase{
	{Err: usecase.ErrMissingFields, Status: http.StatusBadRequest, Message: "Faltan datos"},
	{Err: usecase.ErrEmailMismatch, Status: http.StatusBadRequest, Message: "Los Emails no son iguales"},
	{Err: usecase.ErrPasswordMismatch, Status: http.StatusBadRequest, Message: "Las Contraseñas no son iguales"},
	{Err: usecase.ErrCredentialFormat, Status: http.StatusBadRequest, Message: "El formato de la contraseña o del email no es valida"},
	{Err: usecase.ErrWeakPassword, Status: http.StatusBadRequest, Message: "La contraseña debe tener al menos 7 caracteres, una mayúscula, un número y un carácter especial"},
	{Err: usecase.ErrEmailTaken, Status: http.StatusBadRequest, Message: "El email ya está registrado"},
}

// AuthHandler exposes registration, login, and session endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes binds the authentication routes. requireAuth guards the
// session endpoints; loginMiddlewares run ahead of the login handler.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth gin.HandlerFunc, loginMiddlewares ...gin.HandlerFunc) {
	r.POST("/register", h.register)

	chain := append([]gin.HandlerFunc{}, loginMiddlewares...)
	chain = append(chain, h.login)
	r.POST("/login", chain...)

	r.POST("/logout", requireAuth, h.logout)
	r.GET("/me", requireAuth, h.me)
}

func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}

	_, token, err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		EmailConfirm:    req.EmailConfirm,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		RespondWithMappedError(c, err, registrationErrorCases)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Message: "Usuario registrado correctamente",
		Token:   token,
	})
}

func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var remaining *usecase.RemainingAttemptsError
		if errors.As(err, &remaining) {
			c.JSON(http.StatusUnauthorized, NewErrorResponse(c,
				fmt.Sprintf("Credenciales invalidas, tienes %d intentos.", remaining.Remaining)))
			return
		}
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUnknownEmail, Status: http.StatusUnauthorized, Message: "Ese correo no esta registrado."},
			{Err: usecase.ErrLoginBlocked, Status: http.StatusUnauthorized, Message: "Ha superado el número máximo de intentos. Intentelo más tarde."},
		})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Message: "Credenciales correctas",
		Token:   token,
	})
}

// logout is advisory: session tokens are stateless, the client discards its copy.
func (h *AuthHandler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, MessageResponse{
		Message: "Cierre de sessión exitoso. Se ha borrado el token del cliente.",
	})
}

func (h *AuthHandler) me(c *gin.Context) {
	userID, ok := c.Get(middleware.UserIDKey)
	userIDStr, _ := userID.(string)
	if !ok || userIDStr == "" {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "Token inválido o expirado"))
		return
	}

	user, invitations, err := h.auth.Me(c.Request.Context(), userIDStr)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "Usuario no encontrado"},
		})
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		LoggedIn: true,
		User:     newUserView(user, invitations),
	})
}
