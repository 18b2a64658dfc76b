package smoke

import (
	"bytes"
	"encoding/json"

	"github.com/loykin/apismoke/internal/constants"
	"github.com/loykin/apismoke/internal/util"
)

// Verdict is the outcome label used throughout the report.
type Verdict string

const (
	Pass    Verdict = "PASS"
	Fail    Verdict = "FAIL"
	Unknown Verdict = "UNKNOWN"
)

func verdictOf(ok bool) Verdict {
	if ok {
		return Pass
	}
	return Fail
}

// Call describes a single upstream request.
type Call struct {
	Method  string
	Path    string
	Payload any
	// Stream selects the longer streaming timeout and asks for an event stream.
	Stream bool
}

// Response is what came back for a Call. Status is the three digit HTTP status,
// or TransportFailureStatus when no response was received; Body then holds the error text.
type Response struct {
	Status string
	Body   string
}

// OK reports whether the upstream answered 200.
func (r Response) OK() bool { return r.Status == constants.StatusOK }

// Result is the per-call record kept in the report.
type Result struct {
	HTTP    string `json:"http"`
	Pass    bool   `json:"pass"`
	Preview string `json:"preview"`
	// InfoID is only reported for the info_create check, as null when no id came back.
	InfoID *string `json:"info_id"`

	hasInfoID bool
}

func (r Result) withInfoID(id *string) Result {
	r.InfoID = id
	r.hasInfoID = true
	return r
}

// MarshalJSON writes info_id only for results that carry one.
func (r Result) MarshalJSON() ([]byte, error) {
	fields := []field{
		{Key: "http", Value: r.HTTP},
		{Key: "pass", Value: r.Pass},
		{Key: "preview", Value: r.Preview},
	}
	if r.hasInfoID {
		fields = append(fields, field{Key: "info_id", Value: r.InfoID})
	}
	return orderedObject(fields).MarshalJSON()
}

// NewResult builds a Result from a response; Pass is true iff the status is 200.
func NewResult(resp Response, previewLen int) Result {
	return Result{
		HTTP:    resp.Status,
		Pass:    resp.OK(),
		Preview: util.Truncate(resp.Body, previewLen),
	}
}

// Check is a named Result.
type Check struct {
	Name   string
	Result Result
}

// Checks is an ordered set of named results. It marshals to a JSON object whose
// keys keep insertion order.
type Checks []Check

// Add appends a named result.
func (c *Checks) Add(name string, r Result) {
	*c = append(*c, Check{Name: name, Result: r})
}

// Get returns the result recorded under name.
func (c Checks) Get(name string) (Result, bool) {
	for _, ch := range c {
		if ch.Name == name {
			return ch.Result, true
		}
	}
	return Result{}, false
}

func (c Checks) fields() []field {
	out := make([]field, 0, len(c))
	for _, ch := range c {
		out = append(out, field{Key: ch.Name, Value: ch.Result})
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (c Checks) MarshalJSON() ([]byte, error) {
	return orderedObject(c.fields()).MarshalJSON()
}

type field struct {
	Key   string
	Value any
}

// orderedObject marshals as a JSON object preserving field order.
type orderedObject []field

func (o orderedObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
