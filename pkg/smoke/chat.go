package smoke

import (
	"context"
	"net/http"
	"strings"

	"github.com/loykin/apismoke/internal/constants"
	"github.com/loykin/apismoke/internal/util"
)

// ChatResult reports the conversation + stream pair.
type ChatResult struct {
	Conversation     Verdict `json:"conversation"`
	Stream           Verdict `json:"stream"`
	Overall          Verdict `json:"overall"`
	Note             string  `json:"note"`
	ConversationHTTP string  `json:"conversation_http"`
	StreamHTTP       string  `json:"stream_http"`
	ConversationID   *string `json:"conversation_id"`
	ConversationBody *string `json:"conversation_body,omitempty"`
	StreamPreview    *string `json:"stream_preview,omitempty"`
}

// ChatSummary is the condensed view of a ChatResult.
type ChatSummary struct {
	Overall          Verdict `json:"overall"`
	ConversationHTTP string  `json:"conversation_http"`
	StreamHTTP       string  `json:"stream_http"`
}

// Summary returns the condensed view.
func (c ChatResult) Summary() ChatSummary {
	return ChatSummary{Overall: c.Overall, ConversationHTTP: c.ConversationHTTP, StreamHTTP: c.StreamHTTP}
}

// IsCompleteStream reports whether an event-stream body carries at least one
// data frame and the terminator.
func IsCompleteStream(body string) bool {
	return strings.Contains(body, constants.StreamDataMarker) && strings.Contains(body, constants.StreamDoneMarker)
}

// TestChat opens a conversation for slug and streams message into it. The stream
// call is skipped, and reported FAIL, when no conversation id came back.
func (c *Client) TestChat(ctx context.Context, slug, message string) ChatResult {
	conv := c.Do(ctx, Call{
		Method:  http.MethodPost,
		Path:    "/conversation",
		Payload: map[string]any{"slug": slug},
	})
	cid, ok := fieldIfOK(conv, "conversation_id")
	if !ok {
		body := util.Truncate(conv.Body, constants.ConversationPreviewLen)
		return ChatResult{
			Conversation:     Fail,
			Stream:           Fail,
			Overall:          Fail,
			Note:             "conversation http " + conv.Status,
			ConversationHTTP: conv.Status,
			StreamHTTP:       "-",
			ConversationBody: &body,
		}
	}

	stream := c.Do(ctx, Call{
		Method: http.MethodPost,
		Path:   "/stream",
		Payload: map[string]any{
			"message":         message,
			"slug":            slug,
			"conversation_id": cid,
		},
		Stream: true,
	})
	streamOK := stream.OK() && IsCompleteStream(stream.Body)

	note := ""
	switch {
	case streamOK:
	case !stream.OK():
		note = "stream http " + stream.Status
	default:
		note = "stream format error"
	}
	preview := util.Truncate(stream.Body, constants.StreamPreviewLen)
	return ChatResult{
		Conversation:     Pass,
		Stream:           verdictOf(streamOK),
		Overall:          verdictOf(streamOK),
		Note:             note,
		ConversationHTTP: conv.Status,
		StreamHTTP:       stream.Status,
		ConversationID:   &cid,
		StreamPreview:    &preview,
	}
}
