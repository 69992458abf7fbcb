package external

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hlai/ai-hub-gateway/internal/config"
)

func TestTiktokenEstimator_UnknownEncodingFallsBackToRatio(t *testing.T) {
	e := NewTiktokenEstimator("no_such_encoding")

	for _, text := range []string{"", "twelve chars", strings.Repeat("grade this essay ", 40)} {
		assert.Equal(t, RatioEstimator{}.Estimate(text), e.Estimate(text), text)
	}
	assert.Nil(t, e.enc)
}

func TestNewTiktokenEstimator_DefaultEncoding(t *testing.T) {
	assert.Equal(t, config.DefaultTokenEncoding, NewTiktokenEstimator("").encoding)
	assert.Equal(t, "p50k_base", NewTiktokenEstimator("p50k_base").encoding)
}
