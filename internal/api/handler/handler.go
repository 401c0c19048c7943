package handler

import (
	"civicfix/backend/internal/evidence"
	"civicfix/backend/internal/intake"
	"civicfix/backend/internal/lifecycle"
	"civicfix/backend/internal/storage"
)

// Handler wires the HTTP surface to the intake orchestrator and the
// lifecycle engine.
type Handler struct {
	Intake   *intake.Service
	Engine   *lifecycle.Engine
	Storage  storage.Storage
	Evidence evidence.Store
	Auth     *Auth
}

func NewHandler(in *intake.Service, engine *lifecycle.Engine, s storage.Storage, ev evidence.Store, auth *Auth) *Handler {
	return &Handler{
		Intake:   in,
		Engine:   engine,
		Storage:  s,
		Evidence: ev,
		Auth:     auth,
	}
}
