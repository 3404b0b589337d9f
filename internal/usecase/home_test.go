package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/PabloValdazoDEV/NotApp-Servidor/internal/core/domain"
)

func strPtr(s string) *string {
	return &s
}

func TestHomeServiceCreate(t *testing.T) {
	users := &mockUserRepository{}
	homes := &mockHomeRepository{}
	media := &mockMediaStore{uploadResult: "https://media.example.com/notapp/casa.png"}
	service := NewHomeService(users, homes, &mockListRepository{}, &mockItemRepository{}, media, zaptest.NewLogger(t))

	image := bytes.NewBufferString("png-bytes")
	if err := service.Create(context.Background(), "u1", "Casa", image, "casa.png"); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if media.uploadCalls != 1 {
		t.Fatalf("expected one upload, got %d", media.uploadCalls)
	}
	if homes.createCalls != 1 {
		t.Fatalf("expected one home creation, got %d", homes.createCalls)
	}
	if homes.createdHome.Image == nil || *homes.createdHome.Image != "https://media.example.com/notapp/casa.png" {
		t.Fatalf("expected uploaded image reference, got %v", homes.createdHome.Image)
	}
	if homes.createdOwner.Role != domain.RoleOwner {
		t.Fatalf("expected OWNER membership, got %s", homes.createdOwner.Role)
	}
	if homes.createdOwner.UserID != "u1" || homes.createdOwner.HomeID != homes.createdHome.ID {
		t.Fatalf("membership not bound to home: %+v", homes.createdOwner)
	}
}

func TestHomeServiceCreateWithoutImage(t *testing.T) {
	homes := &mockHomeRepository{}
	media := &mockMediaStore{}
	service := NewHomeService(&mockUserRepository{}, homes, &mockListRepository{}, &mockItemRepository{}, media, zaptest.NewLogger(t))

	if err := service.Create(context.Background(), "u1", "Casa", nil, ""); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if media.uploadCalls != 0 {
		t.Fatalf("expected no upload without image")
	}
	if homes.createdHome.Image != nil {
		t.Fatalf("expected nil image reference")
	}
}

func TestHomeServiceListByUser(t *testing.T) {
	user := domain.User{ID: "u1", Name: "Ana"}
	users := &mockUserRepository{usersByID: map[string]*domain.User{"u1": &user}}
	homes := &mockHomeRepository{listResult: []domain.Home{{ID: "h1", Name: "Casa"}}}
	service := NewHomeService(users, homes, &mockListRepository{}, &mockItemRepository{}, &mockMediaStore{}, zaptest.NewLogger(t))

	got, err := service.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "h1" {
		t.Fatalf("unexpected homes: %+v", got)
	}

	if _, err := service.ListByUser(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestHomeServiceGetComposesDetail(t *testing.T) {
	home := domain.Home{ID: "h1", Name: "Casa"}
	homes := &mockHomeRepository{
		homes:         map[string]*domain.Home{"h1": &home},
		membersResult: []domain.HomeMember{{Membership: domain.Membership{ID: "m1", UserID: "u1", HomeID: "h1", Role: domain.RoleOwner}}},
	}
	lists := &mockListRepository{listResult: []domain.List{{ID: "l1", HomeID: "h1", Name: "Semanal"}}}
	items := &mockItemRepository{listResult: []domain.Item{{ID: "i1", HomeID: "h1", Name: "Pan"}}}
	service := NewHomeService(&mockUserRepository{}, homes, lists, items, &mockMediaStore{}, zaptest.NewLogger(t))

	detail, err := service.Get(context.Background(), "h1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if detail.Home.ID != "h1" {
		t.Fatalf("unexpected home: %+v", detail.Home)
	}
	if len(detail.Members) != 1 || detail.Members[0].Role != domain.RoleOwner {
		t.Fatalf("unexpected members: %+v", detail.Members)
	}
	if len(detail.Lists) != 1 || detail.Lists[0].Name != "Semanal" {
		t.Fatalf("unexpected lists: %+v", detail.Lists)
	}
	if len(detail.Items) != 1 || detail.Items[0].Name != "Pan" {
		t.Fatalf("unexpected items: %+v", detail.Items)
	}

	if _, err := service.Get(context.Background(), "h9"); !errors.Is(err, ErrHomeNotFound) {
		t.Fatalf("expected ErrHomeNotFound, got %v", err)
	}
}

func TestHomeServiceUpdateReplacesImage(t *testing.T) {
	home := domain.Home{ID: "h1", Name: "Casa", Image: strPtr("https://media.example.com/notapp/vieja.png")}
	homes := &mockHomeRepository{homes: map[string]*domain.Home{"h1": &home}}
	media := &mockMediaStore{uploadResult: "https://media.example.com/notapp/nueva.png"}
	service := NewHomeService(&mockUserRepository{}, homes, &mockListRepository{}, &mockItemRepository{}, media, zaptest.NewLogger(t))

	input := HomeUpdateInput{
		HomeID:   "h1",
		Name:     "",
		Image:    bytes.NewBufferString("new-png"),
		Filename: "nueva.png",
	}
	if err := service.Update(context.Background(), input); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if media.destroyCalls != 1 || media.destroyedID != "https://media.example.com/notapp/vieja.png" {
		t.Fatalf("expected old image destroyed, got %d calls for %q", media.destroyCalls, media.destroyedID)
	}
	if homes.updatedHome.Image == nil || *homes.updatedHome.Image != "https://media.example.com/notapp/nueva.png" {
		t.Fatalf("expected new image reference, got %v", homes.updatedHome.Image)
	}
	// Empty name keeps the current one.
	if homes.updatedHome.Name != "Casa" {
		t.Fatalf("expected name preserved, got %q", homes.updatedHome.Name)
	}
}

func TestHomeServiceUpdateImageDelete(t *testing.T) {
	home := domain.Home{ID: "h1", Name: "Casa", Image: strPtr("https://media.example.com/notapp/vieja.png")}
	homes := &mockHomeRepository{homes: map[string]*domain.Home{"h1": &home}}
	media := &mockMediaStore{}
	service := NewHomeService(&mockUserRepository{}, homes, &mockListRepository{}, &mockItemRepository{}, media, zaptest.NewLogger(t))

	input := HomeUpdateInput{HomeID: "h1", Name: "Piso", ImageDelete: true}
	if err := service.Update(context.Background(), input); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if media.destroyCalls != 1 {
		t.Fatalf("expected image destroyed")
	}
	if homes.updatedHome.Image != nil {
		t.Fatalf("expected image cleared")
	}
	if homes.updatedHome.Name != "Piso" {
		t.Fatalf("expected renamed home, got %q", homes.updatedHome.Name)
	}
}

func TestHomeServiceDelete(t *testing.T) {
	home := domain.Home{ID: "h1", Name: "Casa", Image: strPtr("https://media.example.com/notapp/casa.png")}
	homes := &mockHomeRepository{homes: map[string]*domain.Home{"h1": &home}}
	media := &mockMediaStore{}
	service := NewHomeService(&mockUserRepository{}, homes, &mockListRepository{}, &mockItemRepository{}, media, zaptest.NewLogger(t))

	if err := service.Delete(context.Background(), "h1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if media.destroyCalls != 1 {
		t.Fatalf("expected remote image destroyed")
	}
	if homes.deleteCalls != 1 || homes.deletedID != "h1" {
		t.Fatalf("expected home deletion")
	}

	if err := service.Delete(context.Background(), "h9"); !errors.Is(err, ErrHomeNotFound) {
		t.Fatalf("expected ErrHomeNotFound, got %v", err)
	}
}

func TestCatalogServiceCreateItem(t *testing.T) {
	home := domain.Home{ID: "h1", Name: "Casa"}
	homes := &mockHomeRepository{homes: map[string]*domain.Home{"h1": &home}}
	lists := &mockListRepository{}
	items := &mockItemRepository{}
	media := &mockMediaStore{uploadResult: "https://media.example.com/notapp/pan.png"}
	service := NewCatalogService(homes, lists, items, media, zaptest.NewLogger(t))

	input := ItemInput{
		HomeID:      "h1",
		Name:        " Pan ",
		Description: "Integral",
		Price:       "1.20",
		Categories:  "comida",
		Image:       bytes.NewBufferString("png"),
		Filename:    "pan.png",
	}
	item, err := service.CreateItem(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateItem returned error: %v", err)
	}
	if item.Name != "Pan" {
		t.Fatalf("expected trimmed name, got %q", item.Name)
	}
	if item.Image == nil || *item.Image != "https://media.example.com/notapp/pan.png" {
		t.Fatalf("expected uploaded image, got %v", item.Image)
	}
	if items.createCalls != 1 {
		t.Fatalf("expected one item insert")
	}

	input.HomeID = "h9"
	if _, err := service.CreateItem(context.Background(), input); !errors.Is(err, ErrHomeNotFound) {
		t.Fatalf("expected ErrHomeNotFound, got %v", err)
	}
}

func TestCatalogServiceCreateList(t *testing.T) {
	home := domain.Home{ID: "h1", Name: "Casa"}
	homes := &mockHomeRepository{homes: map[string]*domain.Home{"h1": &home}}
	lists := &mockListRepository{}
	service := NewCatalogService(homes, lists, &mockItemRepository{}, &mockMediaStore{}, zaptest.NewLogger(t))

	list, err := service.CreateList(context.Background(), "h1", "Semanal")
	if err != nil {
		t.Fatalf("CreateList returned error: %v", err)
	}
	if list.HomeID != "h1" || list.Name != "Semanal" {
		t.Fatalf("unexpected list: %+v", list)
	}
	if lists.createCalls != 1 {
		t.Fatalf("expected one list insert")
	}

	if _, err := service.CreateList(context.Background(), "h1", ""); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected ErrMissingFields, got %v", err)
	}
}

func TestProfileServiceUpdate(t *testing.T) {
	user := domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com", Image: strPtr("https://media.example.com/notapp/vieja.png")}
	users := &mockUserRepository{usersByID: map[string]*domain.User{"u1": &user}}
	media := &mockMediaStore{uploadResult: "https://media.example.com/notapp/nueva.png"}
	service := NewProfileService(users, media, zaptest.NewLogger(t))

	input := ProfileUpdateInput{
		UserID:   "u1",
		Name:     "",
		Email:    "ana.nueva@example.com",
		Avatar:   bytes.NewBufferString("png"),
		Filename: "nueva.png",
	}
	if err := service.Update(context.Background(), input); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	if media.destroyCalls != 1 {
		t.Fatalf("expected old avatar destroyed")
	}
	if users.updateProfileCalls != 1 {
		t.Fatalf("expected one profile update")
	}
	updated := users.updatedProfile
	if updated.Name != "Ana" {
		t.Fatalf("expected name preserved, got %q", updated.Name)
	}
	if updated.Email != "ana.nueva@example.com" {
		t.Fatalf("expected email changed, got %q", updated.Email)
	}
	if updated.Image == nil || *updated.Image != "https://media.example.com/notapp/nueva.png" {
		t.Fatalf("expected new avatar, got %v", updated.Image)
	}
}

func TestProfileServiceGet(t *testing.T) {
	user := domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com", PasswordHash: "secret"}
	users := &mockUserRepository{
		usersByID:         map[string]*domain.User{"u1": &user},
		invitationsResult: []domain.Invitation{{ID: "i1", UserID: "u1", HomeID: "h1"}},
	}
	service := NewProfileService(users, &mockMediaStore{}, zaptest.NewLogger(t))

	got, invitations, err := service.Get(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.PasswordHash != "" {
		t.Fatalf("expected sanitized profile")
	}
	if len(invitations) != 1 {
		t.Fatalf("expected one invitation, got %d", len(invitations))
	}

	if _, _, err := service.Get(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
