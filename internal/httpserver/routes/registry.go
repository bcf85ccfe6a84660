package routes

import (
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tabas/internal/logger"
)

// Registrar mounts one route group. Groups pick their own guards (api, writes).
type Registrar func(r chi.Router, d deps.Deps)

type group struct {
	name string
	reg  Registrar
}

var registry []group

// Register adds a named route group. Each group file calls it from init.
func Register(name string, reg Registrar) {
	for _, g := range registry {
		if g.name == name {
			panic("routes: group registered twice: " + name)
		}
	}
	registry = append(registry, group{name: name, reg: reg})
}

// RegisterAll mounts every group on r. Called once from server.NewHandler.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range registry {
		g.reg(r, d)
	}
	if d.Logger != nil {
		d.Logger.Debug("routes mounted", logger.Int("groups", len(registry)))
	}
}

// Groups lists the registered group names, sorted.
func Groups() []string {
	names := make([]string, 0, len(registry))
	for _, g := range registry {
		names = append(names, g.name)
	}
	sort.Strings(names)
	return names
}
