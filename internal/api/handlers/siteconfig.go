package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mldjordje/bubanjskioganj/internal/api/problem"
	"github.com/mldjordje/bubanjskioganj/internal/config"
)

// SiteConfigHandler serves the deployment's backend endpoint and public key
// to the components that consume them. When the deployment has no backend
// configured it fails closed with a 404, which consumers treat as
// configuration absence.
type SiteConfigHandler struct {
	supabase config.SupabaseConfig
	env      string
}

func NewSiteConfigHandler(supabase config.SupabaseConfig, env string) *SiteConfigHandler {
	return &SiteConfigHandler{supabase: supabase, env: env}
}

func (h *SiteConfigHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if h.supabase.URL == "" || h.supabase.AnonKey == "" {
		problem.Write(w, r, http.StatusNotFound, "about:blank", "Supabase configuration not set",
			fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY are required"), h.env)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"url":     h.supabase.URL,
		"anonKey": h.supabase.AnonKey,
	})
}
