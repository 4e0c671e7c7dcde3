package photo

import (
	"testing"
	"time"
)

func TestRecencyKey(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	processed := time.Date(2024, 3, 1, 10, 5, 0, 0, time.UTC)

	p := Photo{CreatedAt: created}
	if got := p.RecencyKey(); !got.Equal(created) {
		t.Errorf("expected createdAt fallback, got %v", got)
	}

	p.ProcessedAt = &processed
	if got := p.RecencyKey(); !got.Equal(processed) {
		t.Errorf("expected processedAt, got %v", got)
	}
}
