package services_test

import (
	"errors"
	"testing"

	"drwheels/internal/domain"
	"drwheels/internal/repos"
	"drwheels/internal/services"
)

func reviewFixtures(t *testing.T) (*services.ReviewService, *repos.CarRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// extra reviewers beyond the seeds
	for _, id := range []string{"u-r1", "u-r2", "u-r3"} {
		if _, err := db.Exec(`INSERT INTO users(id,email,name,password_hash,role) VALUES(?,?,?,?,?)`,
			id, id+"@drwheels.test", "Reviewer "+id, "x", "user"); err != nil {
			t.Fatal(err)
		}
	}
	carRepo := repos.NewCarRepo(db)
	return services.NewReviewService(repos.NewReviewRepo(db), carRepo), carRepo
}

func user(id string) *domain.User { return &domain.User{ID: id, Role: domain.RoleUser} }

func carAggregate(t *testing.T, cars *repos.CarRepo, carID string) (float64, int) {
	t.Helper()
	row, err := cars.Get(carID)
	if err != nil {
		t.Fatal(err)
	}
	return row.AverageRating, row.ReviewCount
}

func TestReviewAggregateRecompute(t *testing.T) {
	svc, cars := reviewFixtures(t)
	const carID = "car-accord-01"

	if _, err := svc.Create(user("u-r1"), carID, services.CreateReviewInput{Rating: 4, Comment: "solid"}); err != nil {
		t.Fatal(err)
	}
	if avg, n := carAggregate(t, cars, carID); avg != 4 || n != 1 {
		t.Fatalf("want 4/1, got %v/%d", avg, n)
	}

	if _, err := svc.Create(user("u-r2"), carID, services.CreateReviewInput{Rating: 5}); err != nil {
		t.Fatal(err)
	}
	if avg, n := carAggregate(t, cars, carID); avg != 4.5 || n != 2 {
		t.Fatalf("want 4.5/2, got %v/%d", avg, n)
	}

	// mean of 4,5,5 = 4.666... -> rounded to one decimal
	if _, err := svc.Create(user("u-r3"), carID, services.CreateReviewInput{Rating: 5}); err != nil {
		t.Fatal(err)
	}
	if avg, n := carAggregate(t, cars, carID); avg != 4.7 || n != 3 {
		t.Fatalf("want 4.7/3, got %v/%d", avg, n)
	}
}

func TestReviewDuplicateRejected(t *testing.T) {
	svc, _ := reviewFixtures(t)

	if _, err := svc.Create(user("u-r1"), "car-accord-01", services.CreateReviewInput{Rating: 3}); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(user("u-r1"), "car-accord-01", services.CreateReviewInput{Rating: 5})
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if err.Error() != "You have already reviewed this car" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	// same user may review a different car
	if _, err := svc.Create(user("u-r1"), "car-civic-01", services.CreateReviewInput{Rating: 5}); err != nil {
		t.Fatal(err)
	}
}

func TestReviewMissingCar(t *testing.T) {
	svc, _ := reviewFixtures(t)
	if _, err := svc.Create(user("u-r1"), "car-nope", services.CreateReviewInput{Rating: 3}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReviewUpdateRecomputesAggregate(t *testing.T) {
	svc, cars := reviewFixtures(t)
	const carID = "car-accord-01"

	rev, err := svc.Create(user("u-r1"), carID, services.CreateReviewInput{Rating: 2, Comment: "meh"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(user("u-r2"), carID, services.CreateReviewInput{Rating: 4}); err != nil {
		t.Fatal(err)
	}

	five := 5
	updated, err := svc.Update(user("u-r1"), rev.ID, services.UpdateReviewInput{Rating: &five})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Rating != 5 || updated.Comment != "meh" {
		t.Fatalf("partial update went wrong: %+v", updated)
	}
	if avg, n := carAggregate(t, cars, carID); avg != 4.5 || n != 2 {
		t.Fatalf("want 4.5/2 after update, got %v/%d", avg, n)
	}
}

func TestReviewUpdateAuthorOnly(t *testing.T) {
	svc, _ := reviewFixtures(t)

	rev, err := svc.Create(user("u-r1"), "car-accord-01", services.CreateReviewInput{Rating: 2})
	if err != nil {
		t.Fatal(err)
	}
	five := 5
	if _, err := svc.Update(user("u-r2"), rev.ID, services.UpdateReviewInput{Rating: &five}); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("non-author update must be forbidden, got %v", err)
	}
	// even admins: update is author-only, delete is author-or-admin
	admin := &domain.User{ID: "u-admin", Role: domain.RoleAdmin}
	if _, err := svc.Update(admin, rev.ID, services.UpdateReviewInput{Rating: &five}); !errors.Is(err, services.ErrForbidden) {
		t.Fatalf("admin update must be forbidden, got %v", err)
	}
	if err := svc.Delete(admin, rev.ID); err != nil {
		t.Fatalf("admin delete should pass: %v", err)
	}
}

func TestReviewDeleteResetsAggregate(t *testing.T) {
	svc, cars := reviewFixtures(t)
	const carID = "car-civic-01"

	rev, err := svc.Create(user("u-r1"), carID, services.CreateReviewInput{Rating: 5})
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(user("u-r1"), rev.ID); err != nil {
		t.Fatal(err)
	}
	if avg, n := carAggregate(t, cars, carID); avg != 0 || n != 0 {
		t.Fatalf("aggregate must reset to 0/0, got %v/%d", avg, n)
	}
}

func TestReviewListNewestFirstAndMine(t *testing.T) {
	svc, _ := reviewFixtures(t)
	const carID = "car-accord-01"

	if _, err := svc.Create(user("u-r1"), carID, services.CreateReviewInput{Rating: 3}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(user("u-r2"), carID, services.CreateReviewInput{Rating: 4}); err != nil {
		t.Fatal(err)
	}

	list, err := svc.ListByCar(carID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 reviews, got %d", len(list))
	}
	for _, r := range list {
		if r.User.Name == "" || r.User.Email == "" {
			t.Fatalf("review must embed its author: %+v", r)
		}
	}

	mine, err := svc.ListByUser("u-r1")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].Car.ID != carID || mine[0].Car.Make != "Honda" {
		t.Fatalf("bad my-reviews shape: %+v", mine)
	}
}
