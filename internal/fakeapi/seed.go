package fakeapi

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bookverseapp/bookverse/internal/domain"
)

// Seed is the initial catalog, usually read from YAML:
//
//	genres:
//	  - id: 1
//	    name: Sci-Fi
//	books:
//	  - title: Dune
//	    author: Frank Herbert
//	    coverImage: https://covers.example/dune.jpg
//	    status: to_read
//	    genreId: 1
type Seed struct {
	Genres []SeedGenre `yaml:"genres"`
	Books  []SeedBook  `yaml:"books"`
}

// SeedGenre is a genre entry in a seed file.
type SeedGenre struct {
	Name string `yaml:"name"`
	ID   int64  `yaml:"id"`
}

// SeedBook is a book entry in a seed file. CreatedAt is optional.
type SeedBook struct {
	CreatedAt  time.Time     `yaml:"createdAt"`
	Title      string        `yaml:"title"`
	Author     string        `yaml:"author"`
	CoverImage string        `yaml:"coverImage"`
	Status     domain.Status `yaml:"status"`
	GenreID    int64         `yaml:"genreId"`
}

func (b SeedBook) input() domain.BookInput {
	status := b.Status
	if status == "" {
		status = domain.StatusToRead
	}
	return domain.BookInput{
		Title:      b.Title,
		Author:     b.Author,
		CoverImage: b.CoverImage,
		Status:     status,
		GenreID:    b.GenreID,
	}
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	return seed, nil
}

// LoadSeed reads a YAML seed file. An empty path yields DefaultSeed.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	data, err := os.ReadFile(path) //#nosec G304 -- seed path comes from configuration
	if err != nil {
		return Seed{}, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

// DefaultSeed is the catalog served when no seed file is configured.
func DefaultSeed() Seed {
	base := time.Date(2024, time.January, 15, 9, 0, 0, 0, time.UTC)
	return Seed{
		Genres: []SeedGenre{
			{ID: 1, Name: "Sci-Fi"},
			{ID: 2, Name: "Fantasy"},
			{ID: 3, Name: "Mystery"},
			{ID: 4, Name: "Non-Fiction"},
		},
		Books: []SeedBook{
			{Title: "Dune", Author: "Frank Herbert", CoverImage: "https://covers.openlibrary.org/b/id/11153223-L.jpg", Status: domain.StatusToRead, GenreID: 1, CreatedAt: base},
			{Title: "The Hobbit", Author: "J.R.R. Tolkien", CoverImage: "https://covers.openlibrary.org/b/id/6979861-L.jpg", Status: domain.StatusRead, GenreID: 2, CreatedAt: base.Add(24 * time.Hour)},
			{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", CoverImage: "https://covers.openlibrary.org/b/id/8231851-L.jpg", Status: domain.StatusInProgress, GenreID: 1, CreatedAt: base.Add(48 * time.Hour)},
			{Title: "The Murder of Roger Ackroyd", Author: "Agatha Christie", CoverImage: "https://covers.openlibrary.org/b/id/8228691-L.jpg", Status: domain.StatusRead, GenreID: 3, CreatedAt: base.Add(72 * time.Hour)},
			{Title: "A Wizard of Earthsea", Author: "Ursula K. Le Guin", CoverImage: "https://covers.openlibrary.org/b/id/6627419-L.jpg", Status: domain.StatusToRead, GenreID: 2, CreatedAt: base.Add(96 * time.Hour)},
			{Title: "Sapiens", Author: "Yuval Noah Harari", CoverImage: "https://covers.openlibrary.org/b/id/8384366-L.jpg", Status: domain.StatusInProgress, GenreID: 4, CreatedAt: base.Add(120 * time.Hour)},
		},
	}
}
