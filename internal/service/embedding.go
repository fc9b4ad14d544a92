package service

import (
	"strings"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/smartrecipe/backend/internal/models"
)

// EmbeddingDimensions matches the vector column width on recipes.
const EmbeddingDimensions = 3

// GenerateEmbedding returns a simple deterministic embedding for the given text.
// The components are rune length, latin vowels and CJK runes.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(text)
	var runes, vowels, han float32
	for _, r := range text {
		runes++
		switch {
		case strings.ContainsRune("aeiou", r):
			vowels++
		case r >= 0x4e00 && r <= 0x9fff:
			han++
		}
	}
	return pgvector.NewVector([]float32{runes, vowels, han})
}

// RecipeEmbedding embeds the searchable text of a recipe.
func RecipeEmbedding(r *models.Recipe) *pgvector.Vector {
	parts := append([]string{r.Name, r.Description}, r.Tags...)
	v := GenerateEmbedding(strings.Join(parts, " "))
	return &v
}
