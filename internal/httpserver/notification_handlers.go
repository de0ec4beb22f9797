package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/notify"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/service"
)

func handleListNotifications(notifSvc *service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		notifications, err := notifSvc.ListForUser(r.Context(), currentUser.ID, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, notifications)
	}
}

func handleMarkNotificationRead(notifSvc *service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		id, ok := pathID(w, r, "notificationID")
		if !ok {
			return
		}
		if err := notifSvc.MarkRead(r.Context(), id, currentUser.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func handleDismissNotification(notifSvc *service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		id, ok := pathID(w, r, "notificationID")
		if !ok {
			return
		}
		if err := notifSvc.Dismiss(r.Context(), id, currentUser.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func handleNotificationUnreadCount(notifSvc *service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		count, err := notifSvc.UnreadCount(r.Context(), currentUser.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"unread_count": count})
	}
}

func handleListPreferences(notifSvc *service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		prefs, err := notifSvc.Preferences(r.Context(), currentUser.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, prefs)
	}
}

type preferenceRequest struct {
	Category       string `json:"category"`
	Subcategory    string `json:"subcategory"`
	InAppEnabled   bool   `json:"in_app_enabled"`
	EmailEnabled   bool   `json:"email_enabled"`
	EmailFrequency string `json:"email_frequency"`
}

func handleSetPreference(notifSvc *service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		var req preferenceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		pref := &domain.NotificationPreference{
			UserID:         currentUser.ID,
			Category:       req.Category,
			Subcategory:    req.Subcategory,
			InAppEnabled:   req.InAppEnabled,
			EmailEnabled:   req.EmailEnabled,
			EmailFrequency: domain.EmailFrequency(req.EmailFrequency),
		}
		if err := notifSvc.SetPreference(r.Context(), pref); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, pref)
	}
}

type interestRequest struct {
	CategoryType  string `json:"category_type"`
	CategoryValue string `json:"category_value"`
}

func handleAddInterest(notifSvc *service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		var req interestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := notifSvc.AddInterest(r.Context(), currentUser.ID, req.CategoryType, req.CategoryValue); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "success"})
	}
}

func handleRemoveInterest(notifSvc *service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		var req interestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := notifSvc.RemoveInterest(r.Context(), currentUser.ID, req.CategoryType, req.CategoryValue); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

type announcementRequest struct {
	Title   string          `json:"title"`
	Body    string          `json:"body"`
	Urgent  bool            `json:"urgent"`
	Payload json.RawMessage `json:"payload"`
}

// handleCreateAnnouncement is the all-users broadcast producer. The fan-out
// runs in its own goroutine with a detached context: the HTTP response
// returns immediately and a broadcast failure can never fail this request.
func handleCreateAnnouncement(notifSvc *service.NotificationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		if !currentUser.IsAdmin {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "admin only"})
			return
		}
		var req announcementRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if req.Title == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
			return
		}

		notificationType := notify.TypeAdminAnnouncement
		if req.Urgent {
			notificationType = notify.TypeAdminAlert
		}
		payload := req.Payload
		if payload == nil {
			body, _ := json.Marshal(map[string]string{"title": req.Title, "body": req.Body})
			payload = body
		}

		go notifSvc.NotifyAllUsers(context.Background(), notificationType, currentUser.ID, service.NotifyOptions{
			Payload: payload,
		})

		writeJSON(w, http.StatusAccepted, map[string]string{"status": "broadcast started"})
	}
}
