package httpserver

import (
	"net/http"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/service"
)

func handleGetPresence(presenceSvc *service.PresenceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := pathID(w, r, "userID")
		if !ok {
			return
		}
		p, err := presenceSvc.Get(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

func handleListOnline(presenceSvc *service.PresenceService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		online, err := presenceSvc.Online(r.Context(), currentUser.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, online)
	}
}
