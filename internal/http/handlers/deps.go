package handlers

import (
	"drwheels/internal/repos"
	"drwheels/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	AuthHandler     *AuthHandler
	CarHandler      *CarHandler
	OrderHandler    *OrderHandler
	ReviewHandler   *ReviewHandler
	FavoriteHandler *FavoriteHandler
	ChatHandler     *ChatHandler
}

func NewDeps(db *sqlx.DB, auth *services.AuthService) *Deps {
	userRepo := repos.NewUserRepo(db)
	carRepo := repos.NewCarRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	favRepo := repos.NewFavoriteRepo(db)
	chatRepo := repos.NewChatRepo(db)

	carSvc := services.NewCarService(carRepo)
	orderSvc := services.NewOrderService(orderRepo, carRepo)
	reviewSvc := services.NewReviewService(reviewRepo, carRepo)
	favSvc := services.NewFavoriteService(favRepo, carRepo)
	chatSvc := services.NewChatService(chatRepo, userRepo)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: auth},
		CarHandler:      &CarHandler{Cars: carSvc},
		OrderHandler:    &OrderHandler{Orders: orderSvc},
		ReviewHandler:   &ReviewHandler{Reviews: reviewSvc},
		FavoriteHandler: &FavoriteHandler{Favorites: favSvc},
		ChatHandler:     &ChatHandler{Chats: chatSvc},
	}
}
