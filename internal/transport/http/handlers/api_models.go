package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context
func NewErrorResponse(c *gin.Context, message string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Message: message,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// TokenResponse carries a session token alongside the outcome message.
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// RegisterRequest defines the payload for the register endpoint.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	EmailConfirm    string `json:"emailConfirm"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ForgotPasswordRequest defines the payload for the forgot-password endpoint.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest defines the payload for the reset-password endpoint.
type ResetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// RegisterSpecialRequest defines the payload for invite-based registration.
type RegisterSpecialRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	EmailConfirm    string `json:"emailConfirm"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Token           string `json:"token"`
}

// InviteRequest defines the payload for inviting an email to a home.
type InviteRequest struct {
	Email string `json:"email"`
}

// InviteCheckRequest defines the payload for resolving a pending invitation.
// Accept is a pointer so an absent field is distinguishable from false.
type InviteCheckRequest struct {
	InvitationID string `json:"id_invitation"`
	Accept       *bool  `json:"accept"`
}

// InvitationView is the wire form of a pending invitation.
type InvitationView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	HomeID    string    `json:"home_id"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserView is the wire form of a user profile. The password hash never
// appears here.
type UserView struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Image       *string          `json:"image"`
	Invitations []InvitationView `json:"invitations,omitempty"`
}

// MeResponse is returned by the session introspection endpoint.
type MeResponse struct {
	LoggedIn bool     `json:"loggedIn"`
	User     UserView `json:"user"`
}

// ProfileResponse wraps a profile read.
type ProfileResponse struct {
	Message string   `json:"message"`
	User    UserView `json:"user"`
}

// HomeView is the wire form of a home.
type HomeView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HomeMemberView is a membership joined with its user.
type HomeMemberView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	HomeID    string    `json:"home_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	User      UserView  `json:"user"`
}

// ListView is the wire form of a shopping list.
type ListView struct {
	ID        string    `json:"id"`
	HomeID    string    `json:"home_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemView is the wire form of an item.
type ItemView struct {
	ID          string    `json:"id"`
	HomeID      string    `json:"home_id"`
	Name        string    `json:"name"`
	Image       *string   `json:"image"`
	Description string    `json:"description"`
	Price       string    `json:"price"`
	Categories  string    `json:"categories"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HomeDetailResponse is the full home view with members, lists, and items.
type HomeDetailResponse struct {
	HomeView
	Members []HomeMemberView `json:"members"`
	Lists   []ListView       `json:"lists"`
	Items   []ItemView       `json:"items"`
}

// ItemResponse wraps a created item.
type ItemResponse struct {
	Message string   `json:"message"`
	Item    ItemView `json:"item"`
}

// ListResponse wraps a created list.
type ListResponse struct {
	Message string   `json:"message"`
	List    ListView `json:"list"`
}

func newInvitationViews(invitations []domain.Invitation) []InvitationView {
	if len(invitations) == 0 {
		return nil
	}
	views := make([]InvitationView, 0, len(invitations))
	for _, inv := range invitations {
		views = append(views, InvitationView{
			ID:        inv.ID,
			UserID:    inv.UserID,
			HomeID:    inv.HomeID,
			CreatedAt: inv.CreatedAt,
		})
	}
	return views
}

func newUserView(user *domain.User, invitations []domain.Invitation) UserView {
	return UserView{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Image:       user.Image,
		Invitations: newInvitationViews(invitations),
	}
}

func newHomeView(home domain.Home) HomeView {
	return HomeView{
		ID:        home.ID,
		Name:      home.Name,
		Image:     home.Image,
		CreatedAt: home.CreatedAt,
		UpdatedAt: home.UpdatedAt,
	}
}

func newListView(list domain.List) ListView {
	return ListView{
		ID:        list.ID,
		HomeID:    list.HomeID,
		Name:      list.Name,
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
}

func newItemView(item domain.Item) ItemView {
	return ItemView{
		ID:          item.ID,
		HomeID:      item.HomeID,
		Name:        item.Name,
		Image:       item.Image,
		Description: item.Description,
		Price:       item.Price,
		Categories:  item.Categories,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func newHomeDetailResponse(detail *domain.HomeDetail) HomeDetailResponse {
	members := make([]HomeMemberView, 0, len(detail.Members))
	for _, m := range detail.Members {
		user := m.User
		members = append(members, HomeMemberView{
			ID:        m.ID,
			UserID:    m.UserID,
			HomeID:    m.HomeID,
			Role:      string(m.Role),
			CreatedAt: m.CreatedAt,
			User:      newUserView(&user, nil),
		})
	}

	lists := make([]ListView, 0, len(detail.Lists))
	for _, l := range detail.Lists {
		lists = append(lists, newListView(l))
	}

	items := make([]ItemView, 0, len(detail.Items))
	for _, i := range detail.Items {
		items = append(items, newItemView(i))
	}

	return HomeDetailResponse{
		HomeView: newHomeView(detail.Home),
		Members:  members,
		Lists:    lists,
		Items:    items,
	}
}
