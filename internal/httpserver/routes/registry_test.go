package routes

import (
	"reflect"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
)

func TestGroupsRegistered(t *testing.T) {
	want := []string{"capture", "folders", "host", "probes", "profiles", "state", "tabs"}
	if got := Groups(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Groups() = %v, want %v", got, want)
	}
}

func TestRegisterTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate group")
		}
	}()
	Register("tabs", func(chi.Router, deps.Deps) {})
}
