package handlers

import (
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/tabas/internal/domain"
	"github.com/MrSnakeDoc/tabas/internal/host"
	"github.com/MrSnakeDoc/tabas/internal/httpserver/deps"
)

type tabReport struct {
	Tabs  []domain.BrowserTab `json:"tabs"`
	Event host.TabEvent       `json:"event"`
}

// ReportTabs receives the window snapshot from the browser extension and
// forwards the tab event to subscribers.
func ReportTabs(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var report tabReport
		if err := decodeJSON(r, &report); err != nil {
			writeError(w, r, d, err)
			return
		}
		switch report.Event.Kind {
		case host.TabActivated, host.TabUpdated:
		default:
			writeError(w, r, d, fmt.Errorf("%w: unknown event kind %q", errBadRequest, report.Event.Kind))
			return
		}
		d.Bridge.Report(report.Tabs, report.Event)
		w.WriteHeader(http.StatusAccepted)
	}
}
