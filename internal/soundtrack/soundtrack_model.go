package soundtrack

import "time"

// Soundtrack is one song of the in-app playlist. FileURL is either a full
// URL or an object key in the media bucket; keys are presigned on read.
type Soundtrack struct {
	ID            uint      `gorm:"primaryKey" json:"-"`
	SongID        string    `gorm:"uniqueIndex;not null" json:"song_id"`
	SongTitle     string    `gorm:"not null" json:"song_title"`
	Artist        string    `json:"artist"`
	MoodTag       string    `json:"mood_tag"`
	PlaylistTag   string    `json:"playlist_tag"`
	LyricsSnippet string    `json:"lyrics_snippet"`
	Featured      bool      `gorm:"default:false" json:"featured"`
	FeaturedOrder int       `json:"featured_order"`
	FileURL       string    `json:"file_url"`
	CreatedAt     time.Time `json:"-"`
}
