package store

import "time"

// Transcript is one saved typing session.
type Transcript struct {
	ID        int64
	GUID      string
	Layout    string // layout active when the transcript was saved
	Content   string
	CharCount int // grapheme clusters, not bytes
	CreatedAt time.Time
	UpdatedAt time.Time
}

// transcriptModel represents the database row for the transcripts table.
// Fields map directly to SQL columns with Unix timestamps for time values.
type transcriptModel struct {
	ID        int64
	GUID      string
	Layout    string
	Content   string
	CharCount int64
	CreatedAt int64
	UpdatedAt int64
	DeletedAt *int64 // nullable
}

// toModel converts a Transcript to its database row.
func toModel(t *Transcript) *transcriptModel {
	return &transcriptModel{
		ID:        t.ID,
		GUID:      t.GUID,
		Layout:    t.Layout,
		Content:   t.Content,
		CharCount: int64(t.CharCount),
		CreatedAt: t.CreatedAt.Unix(),
		UpdatedAt: t.UpdatedAt.Unix(),
	}
}

// toTranscript converts a database row to a Transcript.
func (m *transcriptModel) toTranscript() *Transcript {
	return &Transcript{
		ID:        m.ID,
		GUID:      m.GUID,
		Layout:    m.Layout,
		Content:   m.Content,
		CharCount: int(m.CharCount),
		CreatedAt: time.Unix(m.CreatedAt, 0),
		UpdatedAt: time.Unix(m.UpdatedAt, 0),
	}
}
