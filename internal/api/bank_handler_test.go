package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListBanks(t *testing.T) {
	parentID := int64(1)
	banks := append(testBanks(),
		&domain.QuestionBank{ID: 2, Name: "Rivers", Category: "地理", Mode: domain.ModeQA, ParentID: &parentID},
		&domain.QuestionBank{ID: 3, Name: "Misc", Mode: domain.ModeMCQ},
	)
	h := newTestRouter(t, &memoryBanks{banks: banks})

	rr := doRequest(t, h, http.MethodGet, "/banks/", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	resp := decode[CatalogResponse](t, rr)
	require.Len(t, resp.Categories, 2)
	assert.Equal(t, "地理", resp.Categories[0].Name)
	require.Len(t, resp.Categories[0].Banks, 1)
	require.Len(t, resp.Categories[0].Banks[0].SubBanks, 1)
	assert.Equal(t, "Rivers", resp.Categories[0].Banks[0].SubBanks[0].Name)
	assert.Equal(t, service.UncategorizedLabel, resp.Categories[1].Name)
	assert.Empty(t, resp.Categories[0].Banks[0].Questions)
}

func TestListBanksStoreFailure(t *testing.T) {
	h := newTestRouter(t, &memoryBanks{err: errors.New("dial tcp 10.0.0.1:5432: refused")})

	rr := doRequest(t, h, http.MethodGet, "/banks/", nil)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Failed to list question banks")
	assert.NotContains(t, body, "10.0.0.1")
}

func TestGetBank(t *testing.T) {
	h := newTestRouter(t, &memoryBanks{banks: testBanks()})

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"found", "/banks/1", http.StatusOK},
		{"not found", "/banks/77", http.StatusNotFound},
		{"not a number", "/banks/abc", http.StatusBadRequest},
		{"zero", "/banks/0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, http.MethodGet, tt.path, nil)
			assert.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
		})
	}

	resp := decode[BankResponse](t, doRequest(t, h, http.MethodGet, "/banks/1", nil))
	require.NotNil(t, resp.Bank)
	assert.Equal(t, "Capitals", resp.Bank.Name)
	assert.Equal(t, 2, resp.Bank.QuestionCount)
	assert.Empty(t, resp.Bank.Questions, "questions stay server-side")
}
