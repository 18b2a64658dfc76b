package smoke

import (
	"context"
	"net/http"

	"github.com/loykin/apismoke/internal/constants"
)

// LookupTagsResult holds the lookup and tag checks plus the user id derived from the lookup.
type LookupTagsResult struct {
	Checks        Checks
	DerivedUserID *string
	// Warning is set when a tag was created and left in place.
	Warning string
}

// MarshalJSON keeps checks first, in call order.
func (l LookupTagsResult) MarshalJSON() ([]byte, error) {
	fields := l.Checks.fields()
	fields = append(fields, field{Key: "derived_user_id", Value: l.DerivedUserID})
	if l.Warning != "" {
		fields = append(fields, field{Key: "warning", Value: l.Warning})
	}
	return orderedObject(fields).MarshalJSON()
}

// TestLookupAndTags looks up the user by email (when given), lists tags, and with
// write access creates tagName. The created tag is not removed afterwards.
func (c *Client) TestLookupAndTags(ctx context.Context, email string, allowWrite bool, tagName string) LookupTagsResult {
	var out LookupTagsResult

	if email != "" {
		resp := c.Do(ctx, Call{Method: http.MethodPost, Path: "/users/lookup", Payload: map[string]any{"email": email}})
		c.record(&out.Checks, "user_lookup", NewResult(resp, constants.CheckPreviewLen))
		out.DerivedUserID = optional(fieldIfOK(resp, "user_id"))
	}

	resp := c.Do(ctx, Call{Method: http.MethodGet, Path: "/tags"})
	c.record(&out.Checks, "tags_get", NewResult(resp, constants.CheckPreviewLen))

	if allowWrite && tagName != "" {
		resp := c.Do(ctx, Call{
			Method:  http.MethodPost,
			Path:    "/tags",
			Payload: map[string]any{"name": tagName, "color": constants.DefaultTagColor},
		})
		c.record(&out.Checks, "tags_create", NewResult(resp, constants.CheckPreviewLen))
		if resp.OK() {
			out.Warning = constants.UncleanedTagNotice
		}
	}

	return out
}
