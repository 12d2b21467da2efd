package soundtrack

import (
	"context"
	"log/slog"
	"strings"
)

// MediaStore resolves stored object keys into client-fetchable URLs.
type MediaStore interface {
	PresignURL(ctx context.Context, objectKey string) (string, error)
}

type Service interface {
	GetSoundtracks(ctx context.Context) ([]Soundtrack, error)
	GetPlaylists(ctx context.Context) ([]string, error)
}

type service struct {
	repo  Repository
	media MediaStore
}

// NewService wires the soundtrack listing. media may be nil when no object
// store is configured; file URLs then pass through untouched.
func NewService(repo Repository, media MediaStore) Service {
	return &service{repo: repo, media: media}
}

func (s *service) GetSoundtracks(ctx context.Context) ([]Soundtrack, error) {
	soundtracks, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.media == nil {
		return soundtracks, nil
	}

	for i := range soundtracks {
		track := &soundtracks[i]
		if track.FileURL == "" || strings.HasPrefix(track.FileURL, "http://") || strings.HasPrefix(track.FileURL, "https://") {
			continue
		}
		url, err := s.media.PresignURL(ctx, track.FileURL)
		if err != nil {
			slog.Warn("Failed to presign soundtrack URL", "song_id", track.SongID, "error", err)
			continue
		}
		track.FileURL = url
	}

	return soundtracks, nil
}

// GetPlaylists returns the distinct playlist names with the synthetic
// "All Songs" entry first.
func (s *service) GetPlaylists(ctx context.Context) ([]string, error) {
	playlists, err := s.repo.DistinctPlaylists(ctx)
	if err != nil {
		return nil, err
	}
	return append([]string{"All Songs"}, playlists...), nil
}
