package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/studydeck/internal/api/middleware"
	"github.com/phrazzld/studydeck/internal/api/shared"
	"github.com/phrazzld/studydeck/internal/domain"
	"github.com/phrazzld/studydeck/internal/events"
	"github.com/phrazzld/studydeck/internal/service"
	"github.com/phrazzld/studydeck/internal/store"
	"github.com/stretchr/testify/require"
)

// memoryBanks is a BankReader over a fixed set of banks.
type memoryBanks struct {
	banks []*domain.QuestionBank
	err   error
}

func (m *memoryBanks) FetchBanks(context.Context) ([]*domain.QuestionBank, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.banks, nil
}

func (m *memoryBanks) FetchBankWithQuestions(_ context.Context, id int64) (*domain.QuestionBank, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, b := range m.banks {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: id %d", store.ErrBankNotFound, id)
}

func testBanks() []*domain.QuestionBank {
	qa := &domain.QuestionBank{ID: 1, Name: "Capitals", Category: "地理", Mode: domain.ModeQA}
	for i := 1; i <= 2; i++ {
		qa.Questions = append(qa.Questions, &domain.Question{
			ID: int64(i), BankID: 1, Content: fmt.Sprintf("capital %d", i), Answer: "city",
		})
	}
	qa.QuestionCount = len(qa.Questions)
	return []*domain.QuestionBank{qa}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRouter wires real services over reader behind the API routes.
func newTestRouter(t *testing.T, reader service.BankReader) http.Handler {
	t.Helper()
	log := quietLogger()
	sessions := service.NewSessionService(reader, events.NewInMemoryEventEmitter(log), service.SessionOptions{
		IdleTimeout: time.Hour,
		Seed:        func() uint64 { return 7 },
	}, log)
	catalog := service.NewCatalogService(reader, log)

	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware(log))
	RegisterRoutes(r, NewBankHandler(catalog, log), NewSessionHandler(sessions, log))
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func validateStruct(v any) error {
	return shared.ValidateRequest(v)
}
