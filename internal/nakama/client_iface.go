package nakama

import "context"

// Catalog is the port for the full anime list.
type Catalog interface {
	FetchAll(ctx context.Context) ([]Anime, error)
	Cached() ([]Anime, bool)
	Search(query string) []Anime
}

// Recent is the port for the recent uploads list.
type Recent interface {
	FetchRecent(ctx context.Context) ([]Anime, error)
	MostRecentUploaded() (Anime, bool)
}

// CaptchaProvider is the port for captcha challenges.
type CaptchaProvider interface {
	NewCaptcha(ctx context.Context) (Captcha, error)
}

var (
	_ Catalog         = (*CatalogClient)(nil)
	_ Recent          = (*RecentClient)(nil)
	_ CaptchaProvider = (*CaptchaClient)(nil)
)
