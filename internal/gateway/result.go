package gateway

import "fmt"

// Kind tags the outcome of a completion call.
type Kind int

const (
	KindOK         Kind = iota // assistant reply received
	KindMissingKey             // no API key configured, nothing was sent
	KindTransport              // network failure or client-side exception
	KindProvider               // the gateway reported an error message
	KindMalformed              // response was not a usable completion
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindMissingKey:
		return "missing_key"
	case KindTransport:
		return "transport"
	case KindProvider:
		return "provider"
	case KindMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const (
	ErrorPrefix         = "⚠️ API Error: "
	MissingKeyText      = "API key is not configured."
	TransportText       = "Something went wrong."
	UnexpectedReplyText = "Unexpected response from the model."
)

type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
}

// Result is the decoded outcome of one gateway call. Callers switch on Kind
// and never look at the raw payload.
type Result struct {
	Kind            Kind
	Content         string
	ProviderMessage string
	StatusCode      int
	Usage           Usage
	Err             error
}

func (r Result) OK() bool { return r.Kind == KindOK }

// AssistantText is the text appended to the conversation for this result.
// Failures become a human-readable error reply so every user turn gets one.
func (r Result) AssistantText() string {
	switch r.Kind {
	case KindOK:
		return r.Content
	case KindMissingKey:
		return ErrorPrefix + MissingKeyText
	case KindProvider:
		return ErrorPrefix + r.ProviderMessage
	case KindMalformed:
		return ErrorPrefix + UnexpectedReplyText
	default:
		return ErrorPrefix + TransportText
	}
}

// Error describes a failed result for logs and status lines.
func (r Result) Error() string {
	switch r.Kind {
	case KindOK:
		return ""
	case KindProvider:
		return fmt.Sprintf("provider error (HTTP %d): %s", r.StatusCode, r.ProviderMessage)
	case KindMissingKey:
		return "API key is not configured"
	default:
		if r.Err != nil {
			return fmt.Sprintf("%s: %v", r.Kind, r.Err)
		}
		return r.Kind.String()
	}
}
