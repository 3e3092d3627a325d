package model

import "time"

// Language is a reader's presentation language preference.
type Language string

const (
	// LanguageDhivehi is the default site language.
	LanguageDhivehi Language = "dv"
	// LanguageEnglish is the English translation.
	LanguageEnglish Language = "en"
)

// ParseLanguage maps a lang token to a Language, defaulting to Dhivehi.
func ParseLanguage(raw string) Language {
	if Language(raw) == LanguageEnglish {
		return LanguageEnglish
	}
	return LanguageDhivehi
}

// Toggle returns the other language.
func (l Language) Toggle() Language {
	if l == LanguageDhivehi {
		return LanguageEnglish
	}
	return LanguageDhivehi
}

// Category groups stories and short stories for browsing.
type Category struct {
	ID          int64
	Name        string
	Description string
	Color       string // hex color for category display
	Icon        string
	IsActive    bool
	CreatedAt   time.Time
}

// Author writes episodes and short stories.
type Author struct {
	ID      int64
	Name    string
	Bio     string
	Website string
}

// Genre classifies episodes and short stories.
type Genre struct {
	ID          int64
	Name        string
	Description string
	Icon        string
}

// Story is a serialized story made of episodes.
type Story struct {
	ID          int64
	Title       string
	Description string
	ReleaseDate time.Time
	CategoryID  *int64
	IsFeatured  bool
}

// Episode is a single installment of a story, carried in both
// Dhivehi and English.
type Episode struct {
	ID            int64
	EpisodeNumber int
	TitleDv       string
	TitleEn       string
	ContentDv     string
	ContentEn     string
	PublishedDate time.Time
	AuthorID      int64
	GenreID       *int64
}

// ShortStory is a standalone bilingual story.
type ShortStory struct {
	ID            int64
	TitleDv       string
	TitleEn       string
	ContentDv     string
	ContentEn     string
	AuthorID      int64
	GenreID       *int64
	CategoryID    *int64
	PublishedDate time.Time
	IsFeatured    bool
	IsPublished   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Character belongs to a story; names are unique within a story.
type Character struct {
	ID              int64
	StoryID         int64
	Name            string
	Description     string
	IsMainCharacter bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
