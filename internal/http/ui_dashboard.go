package httpx

import (
	"context"
	"net/http"
)

const errMsgUnableLoadCounts = "Applicant counts are unavailable right now."

// Dashboard serves the signed-in recruiter's overview.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Dashboard", CurrentPage: PageDashboard},
		Fetch: func(ctx context.Context, data map[string]any) error {
			dash, err := h.Jobs.Dashboard(ctx, sess)
			if err != nil {
				return err
			}
			data["Dashboard"] = dash
			if !dash.CountsAvailable {
				data["CountsError"] = errMsgUnableLoadCounts
			}
			return nil
		},
	})
}

// Root sends signed-in visitors to the dashboard and everyone else to login.
// Every unknown path lands here too and goes to login.
func (h *UIHandlers) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/" {
		redirect(w, r, dashboardPath)
		return
	}
	redirect(w, r, loginPath)
}
