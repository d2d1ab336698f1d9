package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dernekos/backend/internal/models"
)

func TestPersonalize(t *testing.T) {
	m := &models.Member{FirstName: "Ayşe", LastName: "Yılmaz"}

	got := personalize("Sayın {{ad}} {{soyad}}, aidat hatırlatması.", m)
	assert.Equal(t, "Sayın Ayşe Yılmaz, aidat hatırlatması.", got)

	got = personalize("Merhaba {{ad_soyad}}!", m)
	assert.Equal(t, "Merhaba Ayşe Yılmaz!", got)

	// Bodies without placeholders pass through unchanged.
	assert.Equal(t, "Duyuru metni", personalize("Duyuru metni", m))
}
