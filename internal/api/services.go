package api

import "github.com/listenupapp/readinglog-server/internal/service"

// Services groups the business logic services used by the API server.
type Services struct {
	Auth  *service.AuthService
	Book  *service.BookService
	Stats *service.StatsService
	Reset *service.ResetService
}
