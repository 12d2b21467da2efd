package soundtrack

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindAll(ctx context.Context) ([]Soundtrack, error)
	DistinctPlaylists(ctx context.Context) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context) ([]Soundtrack, error) {
	var soundtracks []Soundtrack
	err := r.db.WithContext(ctx).
		Order("featured DESC, featured_order, song_title").
		Find(&soundtracks).Error
	return soundtracks, err
}

// DistinctPlaylists splits the comma-separated playlist_tag column into
// individual playlist names.
func (r *repository) DistinctPlaylists(ctx context.Context) ([]string, error) {
	var playlists []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT unnest(string_to_array(playlist_tag, ', ')) AS playlist
		FROM soundtracks
		WHERE playlist_tag IS NOT NULL AND playlist_tag != ''
		ORDER BY playlist
	`).Scan(&playlists).Error
	return playlists, err
}
