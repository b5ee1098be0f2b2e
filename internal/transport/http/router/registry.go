package router

import (
	"sort"

	"github.com/gin-gonic/gin"
)

// APIModule mounts its routes on the API group.
type APIModule interface{ MountAPI(*gin.RouterGroup) }

// Implementing prioritizer controls mount order (lower first). Default 100.
type prioritizer interface{ Priority() int }

type Registry struct {
	mods []APIModule
}

// Register keeps mod if it is an APIModule and ignores it otherwise.
func (r *Registry) Register(mods ...any) {
	for _, mod := range mods {
		if m, ok := mod.(APIModule); ok {
			r.mods = append(r.mods, m)
		}
	}
}

// MountAll mounts every registered module in priority order.
func (r *Registry) MountAll(g *gin.RouterGroup) {
	mods := append([]APIModule(nil), r.mods...)
	sort.SliceStable(mods, func(i, j int) bool {
		return priorityOf(mods[i]) < priorityOf(mods[j])
	})
	for _, m := range mods {
		m.MountAPI(g)
	}
}

func priorityOf(v any) int {
	if p, ok := v.(prioritizer); ok {
		return p.Priority()
	}
	return 100
}
