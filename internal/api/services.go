package api

import (
	"github.com/papertrailapp/papertrail-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Profile  *service.ProfileService
	Library  *service.LibraryService
	Social   *service.SocialService
	Feed     *service.FeedService
	Reaction *service.ReactionService
}
