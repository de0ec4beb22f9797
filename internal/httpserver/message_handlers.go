package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/service"
)

type messageSendRequest struct {
	ConversationID int64   `json:"conversation_id"`
	Content        string  `json:"content"`
	FileURL        *string `json:"file_url"`
	FileName       *string `json:"file_name"`
	FileMime       *string `json:"file_mime"`
}

func handleSendMessage(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		var req messageSendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		in := service.SendInput{
			ConversationID: req.ConversationID,
			Content:        req.Content,
		}
		if req.FileURL != nil && *req.FileURL != "" {
			in.Attachment = &service.Attachment{URL: *req.FileURL}
			if req.FileName != nil {
				in.Attachment.Name = *req.FileName
			}
			if req.FileMime != nil {
				in.Attachment.Mime = *req.FileMime
			}
		}

		msg, err := msgSvc.Send(r.Context(), in, currentUser.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, msg)
	}
}

func handleListMessages(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		convID, ok := pathID(w, r, "conversationID")
		if !ok {
			return
		}
		msgs, err := msgSvc.History(r.Context(), convID, currentUser.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, msgs)
	}
}

func handleMarkMessagesRead(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		convID, ok := pathID(w, r, "conversationID")
		if !ok {
			return
		}
		if err := msgSvc.MarkRead(r.Context(), convID, currentUser.ID); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

func handleUnreadCount(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		count, err := msgSvc.UnreadTotal(r.Context(), currentUser.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"unread_count": count})
	}
}

type reactionRequest struct {
	MessageID int64  `json:"message_id"`
	Emoji     string `json:"emoji"`
}

func handleAddReaction(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		var req reactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		reaction, err := msgSvc.AddReaction(r.Context(), req.MessageID, currentUser.ID, req.Emoji)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, reaction)
	}
}

func handleRemoveReaction(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		var req reactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		if err := msgSvc.RemoveReaction(r.Context(), req.MessageID, currentUser.ID, req.Emoji); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
	}
}

type receiptRequest struct {
	LastReadMessageID int64 `json:"last_read_message_id"`
}

func handleUpdateReceipt(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		convID, ok := pathID(w, r, "conversationID")
		if !ok {
			return
		}
		var req receiptRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		rr, err := msgSvc.UpdateReceipt(r.Context(), convID, currentUser.ID, req.LastReadMessageID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rr)
	}
}

func handleListReceipts(msgSvc *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currentUser := CurrentUser(r)
		convID, ok := pathID(w, r, "conversationID")
		if !ok {
			return
		}
		receipts, err := msgSvc.Receipts(r.Context(), convID, currentUser.ID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, receipts)
	}
}

// pathID parses a chi URL parameter as an int64 id, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}
