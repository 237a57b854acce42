package exits_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"vladiate/internal/domain"
	"vladiate/internal/exits"
)

func TestCode(t *testing.T) {
	tests := []struct {
		name     string
		passed   bool
		err      error
		expected int
	}{
		{"passed", true, nil, exits.OK},
		{"failed", false, nil, exits.DataErr},
		{"no vladfile", false, fmt.Errorf("loading: %w", domain.ErrNoVladfile), exits.NoInput},
		{"no vlads", false, domain.ErrNoVlads, exits.NoInput},
		{"unknown vlad", false, fmt.Errorf("%w: Zombies", domain.ErrUnknownVlad), exits.Unavailable},
		{"other error", true, errors.New("boom"), exits.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, exits.Code(tt.passed, tt.err))
		})
	}
}
