package external

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"

	"github.com/hlai/ai-hub-gateway/internal/config"
)

// Estimator counts prompt tokens before a call.
type Estimator interface {
	Estimate(text string) int
}

// RatioEstimator approximates tokens as bytes / TokenEstimateRatio.
type RatioEstimator struct{}

func (RatioEstimator) Estimate(text string) int {
	return len(text) / config.TokenEstimateRatio
}

// TiktokenEstimator uses a BPE encoding, loaded on first use. If the encoding
// cannot be loaded it degrades to RatioEstimator.
type TiktokenEstimator struct {
	encoding string
	once     sync.Once
	enc      *tiktoken.Tiktoken
}

// NewTiktokenEstimator returns an estimator for the named encoding.
func NewTiktokenEstimator(encoding string) *TiktokenEstimator {
	if encoding == "" {
		encoding = config.DefaultTokenEncoding
	}
	return &TiktokenEstimator{encoding: encoding}
}

func (e *TiktokenEstimator) Estimate(text string) int {
	e.once.Do(func() {
		enc, err := tiktoken.GetEncoding(e.encoding)
		if err != nil {
			log.Warn().Err(err).Str("encoding", e.encoding).Msg("token encoding unavailable, using ratio estimate")
			return
		}
		e.enc = enc
	})
	if e.enc == nil {
		return RatioEstimator{}.Estimate(text)
	}
	return len(e.enc.Encode(text, nil, nil))
}

// NewEstimator picks the estimator for the monitoring configuration.
func NewEstimator(cfg config.MonitoringConfig) Estimator {
	if cfg.TokenEstimation {
		return NewTiktokenEstimator(config.DefaultTokenEncoding)
	}
	return RatioEstimator{}
}
