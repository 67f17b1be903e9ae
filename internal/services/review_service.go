package services

import (
	"database/sql"
	"errors"
	"math"

	"drwheels/internal/domain"
	"drwheels/internal/repos"

	"github.com/google/uuid"
)

// ReviewService keeps Car.averageRating/reviewCount as a denormalized
// aggregate over the review rows. Every mutation recomputes by full scan;
// fine while per-car review volume stays small.
type ReviewService struct {
	Reviews *repos.ReviewRepo
	Cars    *repos.CarRepo
}

func NewReviewService(reviews *repos.ReviewRepo, cars *repos.CarRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Cars: cars}
}

type CreateReviewInput struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

type UpdateReviewInput struct {
	Rating  *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment *string `json:"comment" validate:"omitempty,max=1000"`
}

func (s *ReviewService) Create(user *domain.User, carID string, in CreateReviewInput) (domain.ReviewDoc, error) {
	if _, err := s.Cars.Get(carID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReviewDoc{}, notFound("Car not found")
		}
		return domain.ReviewDoc{}, err
	}
	exists, err := s.Reviews.Exists(carID, user.ID)
	if err != nil {
		return domain.ReviewDoc{}, err
	}
	if exists {
		return domain.ReviewDoc{}, conflict("You have already reviewed this car")
	}

	rev := &domain.Review{
		ID:      uuid.NewString(),
		CarID:   carID,
		UserID:  user.ID,
		Rating:  in.Rating,
		Comment: in.Comment,
	}
	if err := s.Reviews.Insert(rev); err != nil {
		return domain.ReviewDoc{}, err
	}
	if err := s.Recompute(carID); err != nil {
		return domain.ReviewDoc{}, err
	}

	row, err := s.Reviews.GetRow(rev.ID)
	if err != nil {
		return domain.ReviewDoc{}, err
	}
	return row.Doc(), nil
}

func (s *ReviewService) Update(actor *domain.User, reviewID string, in UpdateReviewInput) (domain.ReviewDoc, error) {
	rev, err := s.Reviews.Get(reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ReviewDoc{}, notFound("Review not found")
		}
		return domain.ReviewDoc{}, err
	}
	// author only; admins edit nothing, they can only delete
	if actor.ID != rev.UserID {
		return domain.ReviewDoc{}, forbidden()
	}

	if in.Rating != nil {
		rev.Rating = *in.Rating
	}
	if in.Comment != nil {
		rev.Comment = *in.Comment
	}
	if err := s.Reviews.Update(&rev); err != nil {
		return domain.ReviewDoc{}, err
	}
	if err := s.Recompute(rev.CarID); err != nil {
		return domain.ReviewDoc{}, err
	}

	row, err := s.Reviews.GetRow(reviewID)
	if err != nil {
		return domain.ReviewDoc{}, err
	}
	return row.Doc(), nil
}

func (s *ReviewService) Delete(actor *domain.User, reviewID string) error {
	rev, err := s.Reviews.Get(reviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Review not found")
		}
		return err
	}
	if !canMutate(actor, rev.UserID) {
		return forbidden()
	}
	if err := s.Reviews.Delete(reviewID); err != nil {
		return err
	}
	return s.Recompute(rev.CarID)
}

func (s *ReviewService) ListByCar(carID string) ([]domain.ReviewDoc, error) {
	rows, err := s.Reviews.ListByCar(carID)
	if err != nil {
		return nil, err
	}
	docs := make([]domain.ReviewDoc, 0, len(rows))
	for i := range rows {
		docs = append(docs, rows[i].Doc())
	}
	return docs, nil
}

func (s *ReviewService) ListByUser(userID string) ([]domain.UserReviewDoc, error) {
	return s.Reviews.ListByUser(userID)
}

// Recompute refreshes the car's rating aggregate from all of its reviews:
// average rounded to one decimal, zero when no reviews remain.
func (s *ReviewService) Recompute(carID string) error {
	ratings, err := s.Reviews.Ratings(carID)
	if err != nil {
		return err
	}
	avg := 0.0
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r
		}
		avg = math.Round(float64(sum)/float64(len(ratings))*10) / 10
	}
	return s.Cars.SetRating(carID, avg, len(ratings))
}
