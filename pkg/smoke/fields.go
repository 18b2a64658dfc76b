package smoke

import "github.com/tidwall/gjson"

// StringField extracts the value at path (gjson syntax) from a JSON body.
// ok is false when the body is not valid JSON or the value is missing or falsy
// (null, false, 0, "", {} or []); callers treat that as "not found" rather than an error.
func StringField(body, path string) (value string, ok bool) {
	if !gjson.Valid(body) {
		return "", false
	}
	res := gjson.Get(body, path)
	if !truthy(res) {
		return "", false
	}
	return res.String(), true
}

func truthy(res gjson.Result) bool {
	switch {
	case !res.Exists():
		return false
	case res.Type == gjson.Null, res.Type == gjson.False:
		return false
	case res.Type == gjson.Number:
		return res.Num != 0
	case res.Type == gjson.String:
		return res.Str != ""
	case res.IsArray():
		return len(res.Array()) > 0
	case res.IsObject():
		return len(res.Map()) > 0
	}
	return true
}

// fieldIfOK extracts path only from successful responses.
func fieldIfOK(resp Response, path string) (string, bool) {
	if !resp.OK() {
		return "", false
	}
	return StringField(resp.Body, path)
}

func optional(v string, ok bool) *string {
	if !ok {
		return nil
	}
	return &v
}
