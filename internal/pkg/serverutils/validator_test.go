package serverutils

import (
	"strings"
	"testing"

	"file-concierge-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestValidateChatRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.ChatRequest
		wantErr bool
	}{
		{
			name: "plain turn passes",
			req:  dto.ChatRequest{Message: "find the quarterly report", ChatID: "1700000000"},
		},
		{
			name: "selection turn passes",
			req:  dto.ChatRequest{SelectionStage: true, SelectedIndices: []int{1, 3}, ChatID: "1700000000"},
		},
		{
			name:    "oversized message rejected",
			req:     dto.ChatRequest{Message: strings.Repeat("a", 4001)},
			wantErr: true,
		},
		{
			name:    "chat id beyond column width rejected",
			req:     dto.ChatRequest{Message: "hi", ChatID: strings.Repeat("9", 65)},
			wantErr: true,
		},
		{
			name:    "absurd index list rejected",
			req:     dto.ChatRequest{SelectionStage: true, SelectedIndices: make([]int, 51)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(&tt.req)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var fiberErr *fiber.Error
			assert.ErrorAs(t, err, &fiberErr)
			assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
		})
	}
}
