package smoke

import (
	"context"
	"net/http"
	"net/url"

	"github.com/loykin/apismoke/internal/constants"
)

// UsersResult holds the per-user checks, or a note when they were skipped.
type UsersResult struct {
	Checks Checks
	Note   string
}

// Skipped reports whether the user checks never ran.
func (u UsersResult) Skipped() bool { return u.Note != "" && len(u.Checks) == 0 }

// MarshalJSON renders either the checks or the skip note.
func (u UsersResult) MarshalJSON() ([]byte, error) {
	if u.Skipped() {
		return orderedObject{{Key: "note", Value: u.Note}}.MarshalJSON()
	}
	return u.Checks.MarshalJSON()
}

var userReadChecks = []struct {
	name   string
	suffix string
}{
	{"flywheel", "/flywheel"},
	{"tier", "/tier"},
	{"usage", "/usage"},
	{"info_get", "/info"},
}

// TestUserEndpoints runs the read battery for userID and, only when allowWrite is
// set, the mutating battery. An info note created here is deleted again when the
// upstream returned its id.
func (c *Client) TestUserEndpoints(ctx context.Context, userID string, allowWrite bool, tagName, infoText string) UsersResult {
	var out UsersResult
	base := "/users/" + url.PathEscape(userID)

	record := func(name string, call Call) Response {
		resp := c.Do(ctx, call)
		c.record(&out.Checks, name, NewResult(resp, constants.CheckPreviewLen))
		return resp
	}

	for _, rc := range userReadChecks {
		record(rc.name, Call{Method: http.MethodGet, Path: base + rc.suffix})
	}

	if !allowWrite {
		return out
	}

	record("user_patch_name", Call{Method: http.MethodPatch, Path: base, Payload: map[string]any{"name": constants.TestUserName}})
	record("user_revoke", Call{Method: http.MethodPost, Path: base + "/revoke", Payload: map[string]any{}})
	record("user_activate", Call{Method: http.MethodPost, Path: base + "/activate", Payload: map[string]any{}})

	if tagName != "" {
		tagPath := base + "/tags/" + url.PathEscape(tagName)
		record("user_tag", Call{Method: http.MethodPost, Path: tagPath, Payload: map[string]any{}})
		record("user_untag", Call{Method: http.MethodDelete, Path: tagPath})
	}

	if infoText != "" {
		resp := c.Do(ctx, Call{
			Method: http.MethodPost,
			Path:   base + "/info",
			Payload: map[string]any{
				"text":      infoText,
				"source":    constants.InfoSource,
				"info_type": constants.InfoType,
			},
		})
		infoID, ok := fieldIfOK(resp, "id")
		res := NewResult(resp, constants.CheckPreviewLen).withInfoID(optional(infoID, ok))
		c.record(&out.Checks, "info_create", res)
		if ok {
			record("info_delete", Call{Method: http.MethodDelete, Path: base + "/info/" + url.PathEscape(infoID)})
		}
	}

	return out
}
