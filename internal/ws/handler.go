package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/security"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/service"
)

// MakeHandler returns the HTTP handler for the /ws endpoint.
//
// The bearer credential travels in the "token" query parameter because
// browser WebSocket APIs cannot set headers at handshake time. A missing or
// invalid token closes the connection with a policy-violation code. After
// that, every in-band failure — malformed frame, participancy violation,
// validation error — produces an error frame on the same connection and the
// connection stays open.
//
// Presence is last-writer-wins: when a user holds two connections and one
// closes, the disconnect hook marks the user fully offline even though the
// other connection is live. Known limitation, kept deliberately.
func MakeHandler(
	hub *Hub,
	tokens *security.TokenService,
	users domain.UserRepository,
	convSvc *service.ConversationService,
	msgSvc *service.MessageService,
	presence *service.PresenceService,
) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		token := r.URL.Query().Get("token")
		if token == "" {
			closePolicy(conn, "missing token")
			return
		}
		userID, err := tokens.Verify(token)
		if err != nil {
			closePolicy(conn, "invalid token")
			return
		}
		// The connection outlives any per-request deadline set by HTTP
		// middleware; in-loop store calls must not inherit it.
		ctx := context.WithoutCancel(r.Context())
		user, err := users.GetByID(ctx, userID)
		if err != nil || user == nil || !user.IsActive || user.IsSuspended {
			closePolicy(conn, "invalid token")
			return
		}

		client := NewClient(user.ID, conn)
		if err := presence.SetOnline(ctx, user.ID); err != nil {
			slog.Warn("ws: set online", "user", user.ID, "err", err)
		}
		defer func() {
			hub.Remove(client)
			if err := presence.SetOffline(context.Background(), user.ID); err != nil {
				slog.Warn("ws: set offline", "user", user.ID, "err", err)
			}
		}()

		_ = client.Send(ConnectedFrame{Type: FrameConnected, UserID: user.ID})

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame ClientFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				sendError(client, "malformed frame")
				continue
			}

			switch frame.Type {
			case EventSubscribe:
				if _, err := convSvc.Get(ctx, frame.ConversationID, user.ID); err != nil {
					sendError(client, errorMessage(err))
					continue
				}
				hub.Subscribe(client, frame.ConversationID)

			case EventMessage:
				msg, err := msgSvc.Send(ctx, service.SendInput{
					ConversationID: frame.ConversationID,
					Content:        frame.Content,
				}, user.ID)
				if err != nil {
					sendError(client, errorMessage(err))
					continue
				}
				// Fan-out happens strictly after persistence, to every
				// connection on the topic, the sender's included.
				hub.Broadcast(frame.ConversationID, NewMessageFrame{
					Type:    FrameNewMessage,
					Message: msg,
				}, nil)

			case EventTypingStart, EventTypingStop:
				if hub.TopicOf(client) != frame.ConversationID || frame.ConversationID == 0 {
					sendError(client, "not subscribed to this conversation")
					continue
				}
				hub.Broadcast(frame.ConversationID, TypingFrame{
					Type:           frame.Type,
					ConversationID: frame.ConversationID,
					UserID:         user.ID,
				}, client)

			case EventReactionAdded, EventReactionRemoved:
				// The broadcast topic comes from the persisted message, never
				// from the frame; a client cannot route a reaction into a
				// conversation the message does not belong to.
				msg, err := msgSvc.GetMessage(ctx, frame.MessageID, user.ID)
				if err != nil {
					sendError(client, errorMessage(err))
					continue
				}
				if msg.ConversationID != frame.ConversationID {
					sendError(client, "message is not in this conversation")
					continue
				}
				if frame.Type == EventReactionAdded {
					_, err = msgSvc.AddReaction(ctx, frame.MessageID, user.ID, frame.Emoji)
				} else {
					err = msgSvc.RemoveReaction(ctx, frame.MessageID, user.ID, frame.Emoji)
				}
				if err != nil {
					sendError(client, errorMessage(err))
					continue
				}
				// Sender included, for multi-device consistency.
				hub.Broadcast(msg.ConversationID, ReactionFrame{
					Type:           frame.Type,
					ConversationID: msg.ConversationID,
					MessageID:      frame.MessageID,
					UserID:         user.ID,
					Emoji:          frame.Emoji,
				}, nil)

			case EventMessageRead:
				rr, err := msgSvc.UpdateReceipt(ctx, frame.ConversationID, user.ID, frame.LastReadMessageID)
				if err != nil {
					sendError(client, errorMessage(err))
					continue
				}
				hub.Broadcast(frame.ConversationID, MessageReadFrame{
					Type:              EventMessageRead,
					ConversationID:    frame.ConversationID,
					UserID:            user.ID,
					LastReadMessageID: rr.LastReadMessageID,
				}, client)

			default:
				sendError(client, "unknown event type")
			}
		}
	}
}

func closePolicy(conn *websocket.Conn, reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}

func sendError(c *Client, msg string) {
	_ = c.Send(ErrorFrame{Type: FrameError, Message: msg})
}

// errorMessage maps domain errors to frame text without leaking internals.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrValidation):
		return err.Error()
	}
	return "internal error"
}
