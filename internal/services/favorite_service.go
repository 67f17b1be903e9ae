package services

import (
	"database/sql"
	"errors"

	"drwheels/internal/domain"
	"drwheels/internal/repos"

	"github.com/google/uuid"
)

type FavoriteService struct {
	Favorites *repos.FavoriteRepo
	Cars      *repos.CarRepo
}

func NewFavoriteService(favorites *repos.FavoriteRepo, cars *repos.CarRepo) *FavoriteService {
	return &FavoriteService{Favorites: favorites, Cars: cars}
}

type AddFavoriteInput struct {
	CarID string `json:"carId" validate:"required"`
}

func (s *FavoriteService) Add(userID, carID string) (domain.FavoriteDoc, error) {
	car, err := s.Cars.Get(carID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.FavoriteDoc{}, notFound("Car not found")
		}
		return domain.FavoriteDoc{}, err
	}
	exists, err := s.Favorites.Exists(userID, carID)
	if err != nil {
		return domain.FavoriteDoc{}, err
	}
	if exists {
		return domain.FavoriteDoc{}, conflict("Car already in favorites")
	}

	fav := &domain.Favorite{ID: uuid.NewString(), UserID: userID, CarID: carID}
	if err := s.Favorites.Insert(fav); err != nil {
		return domain.FavoriteDoc{}, err
	}

	doc := car.Doc()
	return domain.FavoriteDoc{
		ID:        fav.ID,
		Car:       domain.CarRef{ID: doc.ID, Make: doc.Make, Model: doc.Model, Year: doc.Year, Price: doc.Price, Images: doc.Images},
		CreatedAt: fav.CreatedAt,
	}, nil
}

func (s *FavoriteService) Remove(userID, carID string) error {
	removed, err := s.Favorites.Remove(userID, carID)
	if err != nil {
		return err
	}
	if !removed {
		return notFound("Favorite not found")
	}
	return nil
}

func (s *FavoriteService) List(userID string) ([]domain.CarDoc, error) {
	rows, err := s.Favorites.ListCars(userID)
	if err != nil {
		return nil, err
	}
	docs := make([]domain.CarDoc, 0, len(rows))
	for i := range rows {
		docs = append(docs, rows[i].Doc())
	}
	return docs, nil
}

func (s *FavoriteService) Check(userID, carID string) (bool, error) {
	return s.Favorites.Exists(userID, carID)
}
