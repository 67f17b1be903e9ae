package services_test

import (
	"errors"
	"testing"

	"drwheels/internal/domain"
	"drwheels/internal/repos"
	"drwheels/internal/services"
)

func favoriteFixtures(t *testing.T) *services.FavoriteService {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return services.NewFavoriteService(repos.NewFavoriteRepo(db), repos.NewCarRepo(db))
}

func TestFavoriteAddListRemove(t *testing.T) {
	svc := favoriteFixtures(t)

	fav, err := svc.Add("u-ben", "car-accord-01")
	if err != nil {
		t.Fatal(err)
	}
	if fav.Car.ID != "car-accord-01" || fav.Car.Price != 21500 {
		t.Fatalf("favorite should embed the car summary: %+v", fav)
	}

	if _, err := svc.Add("u-ben", "car-civic-01"); err != nil {
		t.Fatal(err)
	}
	list, err := svc.List("u-ben")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 favorites, got %d", len(list))
	}

	ok, err := svc.Check("u-ben", "car-accord-01")
	if err != nil || !ok {
		t.Fatalf("check should report true, got %v/%v", ok, err)
	}

	if err := svc.Remove("u-ben", "car-accord-01"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := svc.Check("u-ben", "car-accord-01"); ok {
		t.Fatal("check should report false after removal")
	}
}

func TestFavoriteDuplicateRejected(t *testing.T) {
	svc := favoriteFixtures(t)

	if _, err := svc.Add("u-ben", "car-accord-01"); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Add("u-ben", "car-accord-01")
	if !errors.Is(err, services.ErrConflict) || err.Error() != "Car already in favorites" {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}
	// another user may favorite the same car
	if _, err := svc.Add("u-sara", "car-accord-01"); err != nil {
		t.Fatal(err)
	}
}

func TestFavoriteMissingTargets(t *testing.T) {
	svc := favoriteFixtures(t)

	if _, err := svc.Add("u-ben", "car-nope"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("favoriting a missing car must 404, got %v", err)
	}
	err := svc.Remove("u-ben", "car-accord-01")
	if !errors.Is(err, services.ErrNotFound) || err.Error() != "Favorite not found" {
		t.Fatalf("removing a non-favorite must 404, got %v", err)
	}
}

func chatFixtures(t *testing.T) *services.ChatService {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return services.NewChatService(repos.NewChatRepo(db), repos.NewUserRepo(db))
}

func TestChatOpenIsIdempotentPerPair(t *testing.T) {
	svc := chatFixtures(t)
	ben := &domain.User{ID: "u-ben", Role: domain.RoleUser}
	sara := &domain.User{ID: "u-sara", Role: domain.RoleUser}

	first, err := svc.Open(ben, "u-sara")
	if err != nil {
		t.Fatal(err)
	}
	if len(first.Participants) != 2 || len(first.Messages) != 0 {
		t.Fatalf("new chat should be empty with both parties: %+v", first)
	}

	// same pair from either side resolves to the same chat
	again, err := svc.Open(sara, "u-ben")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != first.ID {
		t.Fatalf("pair must map to one chat: %s vs %s", again.ID, first.ID)
	}
}

func TestChatOpenMissingParticipant(t *testing.T) {
	svc := chatFixtures(t)
	ben := &domain.User{ID: "u-ben", Role: domain.RoleUser}

	_, err := svc.Open(ben, "u-ghost")
	if !errors.Is(err, services.ErrNotFound) || err.Error() != "User not found" {
		t.Fatalf("expected user not found, got %v", err)
	}
}

func TestChatSendAndVisibility(t *testing.T) {
	svc := chatFixtures(t)
	ben := &domain.User{ID: "u-ben", Role: domain.RoleUser}
	sara := &domain.User{ID: "u-sara", Role: domain.RoleUser}
	admin := &domain.User{ID: "u-admin", Role: domain.RoleAdmin}

	ch, err := svc.Open(ben, "u-sara")
	if err != nil {
		t.Fatal(err)
	}
	out, err := svc.Send(ben, ch.ID, "Is the Accord still for sale?")
	if err != nil {
		t.Fatal(err)
	}
	out, err = svc.Send(sara, ch.ID, "It is, want to see it?")
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Messages) != 2 {
		t.Fatalf("want 2 messages, got %d", len(out.Messages))
	}
	if out.Messages[0].Sender != "u-ben" || out.Messages[1].Sender != "u-sara" {
		t.Fatalf("messages must keep send order: %+v", out.Messages)
	}

	// participants and admins read, strangers do not, and strangers
	// cannot write even if they know the id
	if _, err := svc.Get(admin, ch.ID); err != nil {
		t.Fatalf("admin read should pass: %v", err)
	}
	if _, err := svc.Get(admin, "chat-nope"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing chat must 404, got %v", err)
	}
	if _, err := svc.Send(admin, ch.ID, "admin speaking"); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("non-participant send must be forbidden, got %v", err)
	}

	benChats, err := svc.ListForUser("u-ben")
	if err != nil {
		t.Fatal(err)
	}
	if len(benChats) != 1 || benChats[0].ID != ch.ID {
		t.Fatalf("bad chat list: %+v", benChats)
	}
	if none, _ := svc.ListForUser("u-admin"); len(none) != 0 {
		t.Fatalf("admin is in no chats, got %d", len(none))
	}
}
