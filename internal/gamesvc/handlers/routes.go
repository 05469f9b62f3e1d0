package handlers

import (
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) SetRoutes(r *chi.Mux) {
	r.Route("/v1", func(r chi.Router) {

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Get("/health", h.HealthHandler)
			r.Get("/rounds/{game}", h.RoundHandler)
		})
	})
}

func (h *Handler) InitAuth() {
	h.SetAuth(jwtauth.New("HS256", []byte(os.Getenv("JWT_SECRET_KEY")), nil))

	expirationTime := time.Now().Add(7 * 24 * time.Hour).Unix()

	_, tokenString, err := h.tokenAuth.Encode(map[string]interface{}{
		"service_id": 8003022,
		"exp":        expirationTime,
	})
	if err != nil {
		log.Errorf("unable to issue debug token: %s", err)
		return
	}

	log.Debugf("JWT for testing: %s", tokenString)
}

func (h *Handler) SetAuth(auth *jwtauth.JWTAuth) {
	h.tokenAuth = auth
}
