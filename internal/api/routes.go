package api

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the bank and session endpoints on r.
func RegisterRoutes(r chi.Router, banks *BankHandler, sessions *SessionHandler) {
	r.Route("/banks", func(r chi.Router) {
		r.Get("/", banks.ListBanks)
		r.Get("/{id}", banks.GetBank)
	})
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", sessions.CreateSession)
		r.Get("/{id}", sessions.GetSession)
		r.Delete("/{id}", sessions.DeleteSession)
		r.Post("/{id}/actions", sessions.DispatchAction)
	})
}
