package sugarscan

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ErrorKind distinguishes why a scan produced no product.
type ErrorKind int

const (
	// ErrorTransport covers network failures, timeouts and unparseable bodies.
	ErrorTransport ErrorKind = iota + 1
	// ErrorRemote is a failure reported by the webhook itself, such as an
	// unknown barcode.
	ErrorRemote
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorTransport:
		return "transport"
	case ErrorRemote:
		return "remote"
	default:
		return "unknown"
	}
}

// ScanError is the error half of a Result.
type ScanError struct {
	Kind    ErrorKind
	Message string
}

// Result is the parsed webhook response. Exactly one of Err or the product
// fields is meaningful; when Err is nil every product field is optional.
type Result struct {
	Err *ScanError

	ProductName      string
	Brand            string
	ServingSize      string
	Calories         string
	SugarLevel       string
	SugarsPerServing string
	SugarContext     string
	AIRecommendation string
	Alternatives     []string
	Image            string
}

// IsError reports whether the result carries an error instead of a product.
func (r Result) IsError() bool {
	return r.Err != nil
}

// TransportError builds the generic result shown for any transport failure.
func TransportError() Result {
	return Result{Err: &ScanError{Kind: ErrorTransport, Message: transportFailureMessage}}
}

const (
	transportFailureMessage = "Failed to analyze product"
	remoteFailureMessage    = "Analysis failed"
)

// payload mirrors the webhook JSON. Both observed spellings of the renamed
// fields are accepted; the first listed wins when both are present.
type payload struct {
	Error            json.RawMessage `json:"error"`
	ProductName      Text            `json:"productName"`
	Brands           Text            `json:"brands"`
	Brand            Text            `json:"brand"`
	ServingSize      Text            `json:"servingSize"`
	Calories         Text            `json:"calories"`
	SugarLevel       Text            `json:"sugarLevel"`
	SugarsPerServing Text            `json:"sugarsPerServing"`
	SugarPerServing  Text            `json:"sugarPerServing"`
	SugarContext     Text            `json:"sugarContext"`
	AIRecommendation Text            `json:"aiRecommendation"`
	AIAnalysis       Text            `json:"aiAnalysis"`
	Alternatives     TextList        `json:"alternatives"`
	Image            Text            `json:"image"`
}

func (p payload) result() Result {
	if msg := errorMessage(p.Error); msg != "" {
		return Result{Err: &ScanError{Kind: ErrorRemote, Message: msg}}
	}
	r := Result{
		ProductName:      string(p.ProductName),
		Brand:            firstNonEmpty(p.Brands, p.Brand),
		ServingSize:      string(p.ServingSize),
		Calories:         string(p.Calories),
		SugarLevel:       string(p.SugarLevel),
		SugarsPerServing: firstNonEmpty(p.SugarsPerServing, p.SugarPerServing),
		SugarContext:     string(p.SugarContext),
		AIRecommendation: firstNonEmpty(p.AIRecommendation, p.AIAnalysis),
		Image:            strings.TrimSpace(string(p.Image)),
	}
	for _, alt := range p.Alternatives {
		r.Alternatives = append(r.Alternatives, string(alt))
	}
	return r
}

// errorMessage reads the error field. Falsy values (null, false, 0, blank
// strings) mean no error; true has no text of its own.
func errorMessage(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	switch {
	case len(trimmed) == 0,
		bytes.Equal(trimmed, []byte("null")),
		bytes.Equal(trimmed, []byte("false")):
		return ""
	case bytes.Equal(trimmed, []byte("true")):
		return remoteFailureMessage
	}
	var t Text
	if err := t.UnmarshalJSON(trimmed); err != nil {
		return remoteFailureMessage
	}
	msg := strings.TrimSpace(string(t))
	if trimmed[0] != '"' {
		if f, err := strconv.ParseFloat(msg, 64); err == nil && f == 0 {
			return ""
		}
	}
	return msg
}

func firstNonEmpty(values ...Text) string {
	for _, v := range values {
		if strings.TrimSpace(string(v)) != "" {
			return string(v)
		}
	}
	return ""
}

// Text is a JSON value read as display text. Strings are kept verbatim,
// numbers and booleans are formatted, null is empty and anything else is kept
// as compact JSON.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*t = ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*t = Text(s)
	case bytes.Equal(trimmed, []byte("true")), bytes.Equal(trimmed, []byte("false")):
		*t = Text(trimmed)
	case trimmed[0] == '{' || trimmed[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return err
		}
		*t = Text(buf.String())
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		*t = Text(formatNumber(n))
	}
	return nil
}

// TextList is a JSON array of Text. A lone scalar is read as a one-element
// list.
type TextList []Text

// UnmarshalJSON implements json.Unmarshaler.
func (l *TextList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []Text
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		*l = items
		return nil
	}
	var single Text
	if err := single.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	if single == "" {
		*l = nil
		return nil
	}
	*l = TextList{single}
	return nil
}

func formatNumber(n json.Number) string {
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.String()
}
