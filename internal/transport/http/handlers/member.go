package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/usecase"
)

// MemberHandler exposes the home invitation endpoints.
type MemberHandler struct {
	invitations *usecase.InvitationService
}

// NewMemberHandler constructs MemberHandler.
func NewMemberHandler(invitations *usecase.InvitationService) *MemberHandler {
	return &MemberHandler{invitations: invitations}
}

// RegisterRoutes binds the member routes under /member. Registration via
// invite link stays public; inviting and resolving require a session.
func (h *MemberHandler) RegisterRoutes(r *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	member := r.Group("/member")
	member.POST("/register-special", h.registerSpecial)
	member.POST("/invite/:id_hogar", requireAuth, h.invite)
	member.POST("/invite-check", requireAuth, h.inviteCheck)
}

func (h *MemberHandler) registerSpecial(c *gin.Context) {
	var req RegisterSpecialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}

	_, token, err := h.invitations.RegisterViaInvite(c.Request.Context(), usecase.RegisterViaInviteInput{
		Name:            req.Name,
		Email:           req.Email,
		EmailConfirm:    req.EmailConfirm,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Token:           req.Token,
	})
	if err != nil {
		cases := append([]ErrorCase{
			{Err: usecase.ErrInviteEmailMismatch, Status: http.StatusBadRequest, Message: "El email invitado no conincide"},
			{Err: usecase.ErrTokenInvalid, Status: http.StatusBadRequest, Message: "Token invalido"},
		}, registrationErrorCases...)
		RespondWithMappedError(c, err, cases)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		Message: "Usuario registrado correctamente",
		Token:   token,
	})
}

func (h *MemberHandler) invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos."))
		return
	}

	outcome, err := h.invitations.Invite(c.Request.Context(), c.Param("id_hogar"), req.Email)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrMissingFields, Status: http.StatusBadRequest, Message: "Faltan datos."},
			{Err: usecase.ErrHomeNotFound, Status: http.StatusBadRequest, Message: "Hogar no encontrado."},
			{Err: usecase.ErrAlreadyMember, Status: http.StatusBadRequest, Message: "Este usuario ya esta dentro del hogar."},
			{Err: usecase.ErrAlreadyInvited, Status: http.StatusBadRequest, Message: "Este usuario ya tiene una invitación pendiente"},
		})
		return
	}

	if outcome.EmailSent {
		c.JSON(http.StatusOK, MessageResponse{Message: "Email de invitación enviado."})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("Invitación enviada a %s", outcome.InviteeName),
	})
}

func (h *MemberHandler) inviteCheck(c *gin.Context) {
	var req InviteCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}
	if req.InvitationID == "" || req.Accept == nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Faltan datos"))
		return
	}

	detail, err := h.invitations.Resolve(c.Request.Context(), req.InvitationID, *req.Accept)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvitationNotFound, Status: http.StatusBadRequest, Message: "Invitacion no encontrada."},
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{
		Message: fmt.Sprintf("%s se ha unido a %s", detail.UserName, detail.HomeName),
	})
}
