package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"math"

	"drwheels/internal/domain"
	"drwheels/internal/repos"

	"github.com/google/uuid"
)

type CarService struct {
	Cars *repos.CarRepo
}

func NewCarService(cars *repos.CarRepo) *CarService { return &CarService{Cars: cars} }

type CreateCarInput struct {
	Make        string   `json:"make" validate:"required,min=1,max=50"`
	Model       string   `json:"model" validate:"required,min=1,max=50"`
	Year        int      `json:"year" validate:"required,caryear"`
	Price       float64  `json:"price" validate:"gte=0"`
	Mileage     int      `json:"mileage" validate:"gte=0"`
	Color       string   `json:"color" validate:"max=30"`
	Description string   `json:"description" validate:"max=2000"`
	Images      []string `json:"images" validate:"omitempty,dive,url"`
}

type UpdateCarInput struct {
	Make        *string   `json:"make" validate:"omitempty,min=1,max=50"`
	Model       *string   `json:"model" validate:"omitempty,min=1,max=50"`
	Year        *int      `json:"year" validate:"omitempty,caryear"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Mileage     *int      `json:"mileage" validate:"omitempty,gte=0"`
	Color       *string   `json:"color" validate:"omitempty,max=30"`
	Description *string   `json:"description" validate:"omitempty,max=2000"`
	Images      *[]string `json:"images" validate:"omitempty,dive,url"`
	Status      *string   `json:"status" validate:"omitempty,oneof=available pending sold"`
}

// List runs the public search; only available cars are visible.
func (s *CarService) List(f repos.CarFilter, page int) ([]domain.CarDoc, domain.Pagination, error) {
	f.Offset = (page - 1) * f.Limit
	rows, total, err := s.Cars.Search(f)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	docs := make([]domain.CarDoc, 0, len(rows))
	for i := range rows {
		docs = append(docs, rows[i].Doc())
	}
	pg := domain.Pagination{
		Page:  page,
		Limit: f.Limit,
		Total: total,
		Pages: int(math.Ceil(float64(total) / float64(f.Limit))),
	}
	return docs, pg, nil
}

func (s *CarService) Get(id string) (domain.CarDoc, error) {
	row, err := s.Cars.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CarDoc{}, notFound("Car not found")
		}
		return domain.CarDoc{}, err
	}
	return row.Doc(), nil
}

func (s *CarService) Create(sellerID string, in CreateCarInput) (domain.CarDoc, error) {
	images := in.Images
	if images == nil {
		images = []string{}
	}
	b, _ := json.Marshal(images)
	car := &domain.Car{
		ID:          uuid.NewString(),
		SellerID:    sellerID,
		Make:        in.Make,
		Model:       in.Model,
		Year:        in.Year,
		Price:       in.Price,
		Mileage:     in.Mileage,
		Color:       in.Color,
		Description: in.Description,
		ImagesJSON:  string(b),
		Status:      domain.CarAvailable,
	}
	if err := s.Cars.Insert(car); err != nil {
		return domain.CarDoc{}, err
	}
	return s.Get(car.ID)
}

func (s *CarService) Update(actor *domain.User, id string, in UpdateCarInput) (domain.CarDoc, error) {
	row, err := s.Cars.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.CarDoc{}, notFound("Car not found")
		}
		return domain.CarDoc{}, err
	}
	if !canMutate(actor, row.SellerID) {
		return domain.CarDoc{}, forbidden()
	}

	car := row.Car
	if in.Make != nil {
		car.Make = *in.Make
	}
	if in.Model != nil {
		car.Model = *in.Model
	}
	if in.Year != nil {
		car.Year = *in.Year
	}
	if in.Price != nil {
		car.Price = *in.Price
	}
	if in.Mileage != nil {
		car.Mileage = *in.Mileage
	}
	if in.Color != nil {
		car.Color = *in.Color
	}
	if in.Description != nil {
		car.Description = *in.Description
	}
	if in.Images != nil {
		b, _ := json.Marshal(*in.Images)
		car.ImagesJSON = string(b)
	}
	if in.Status != nil {
		car.Status = *in.Status
	}
	if err := s.Cars.Update(&car); err != nil {
		return domain.CarDoc{}, err
	}
	return s.Get(id)
}

func (s *CarService) Delete(actor *domain.User, id string) error {
	row, err := s.Cars.Get(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound("Car not found")
		}
		return err
	}
	if !canMutate(actor, row.SellerID) {
		return forbidden()
	}
	// No cascade: orders/reviews/favorites keep their dangling car_id.
	return s.Cars.Delete(id)
}

func (s *CarService) MyCars(sellerID string) ([]domain.CarDoc, error) {
	rows, err := s.Cars.ListBySeller(sellerID)
	if err != nil {
		return nil, err
	}
	docs := make([]domain.CarDoc, 0, len(rows))
	for i := range rows {
		docs = append(docs, rows[i].Doc())
	}
	return docs, nil
}
