package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinEndpointURL(t *testing.T) {
	tests := []struct {
		base, path, expected string
	}{
		{"https://hub.openai.azure.com", "/openai/deployments/g", "https://hub.openai.azure.com/openai/deployments/g"},
		{"https://hub.openai.azure.com/", "/openai", "https://hub.openai.azure.com/openai"},
		{"http://127.0.0.1:9000//", "//openai", "http://127.0.0.1:9000/openai"},
		{"hub.local", "/x", "hub.local/x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, JoinEndpointURL(tt.base, tt.path))
	}
}
