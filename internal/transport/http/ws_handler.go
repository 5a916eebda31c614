package http

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"study-quiz-service/internal/app"
	"study-quiz-service/internal/domain"
)

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	QuestionID int    `json:"questionId"`
	Key        string `json:"key"`
}

type viewPayload struct {
	Mode domain.Mode `json:"mode"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades to a websocket for taking the visitor's quiz interactively.
// Every accepted action is answered with the refreshed view.
func (h *Handler) ServeWS(c *gin.Context) {
	id := visitorID(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := c.Request.Context()
	send := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug("ws write error", "error", err)
				return
			}
		}
	}()

	push := func(msg outboundMessage[any]) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}
	reply := func(view app.View, err error) {
		if err != nil {
			push(errorMessage(messageFor(err)))
			return
		}
		push(outboundMessage[any]{Type: "view", Payload: view})
	}

	reply(h.service.View(ctx, id, domain.ModeInteractive))

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				push(errorMessage("invalid select payload"))
				continue
			}
			reply(h.service.Select(ctx, id, payload.QuestionID, payload.Key))
		case "submit":
			reply(h.service.Submit(ctx, id))
		case "retake":
			reply(h.service.Retake(ctx, id))
		case "view":
			var payload viewPayload
			_ = json.Unmarshal(inbound.Payload, &payload)
			mode := domain.ModeInteractive
			if payload.Mode == domain.ModeReview {
				mode = domain.ModeReview
			}
			reply(h.service.View(ctx, id, mode))
		default:
			push(errorMessage("unsupported message type"))
		}
	}

	close(send)
	<-writerDone
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}
