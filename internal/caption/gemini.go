package caption

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com"

const captionPrompt = "You are a meme caption writer. Look at this photo and " +
	"invent a funny two-part meme caption for it. Reply with exactly two short " +
	"segments separated by a single '|' character: the top text, then the " +
	"bottom text. No quotes, no explanations, nothing else."

// GeminiClient calls the generateContent endpoint of the Gemini API. The key
// and endpoint are injected at construction so the client can be pointed at a
// fake server in tests.
type GeminiClient struct {
	apiKey   string
	model    string
	endpoint string
	http     *http.Client
	log      *logrus.Logger
}

func NewGeminiClient(apiKey, model, endpoint string, log *logrus.Logger) *GeminiClient {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return &GeminiClient{
		apiKey:   strings.TrimSpace(apiKey),
		model:    model,
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{},
		log:      log,
	}
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error"`
}

type apiError struct {
	Code    int    `json:"code"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Generate sends the photo with the caption prompt and parses the two-part
// reply. Timeout: 30s.
func (c *GeminiClient) Generate(ctx context.Context, jpeg []byte) (Caption, error) {
	encoded := base64.StdEncoding.EncodeToString(jpeg)
	if len(encoded) > MaxEncodedPayload {
		return Caption{}, fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, len(encoded))
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	payload, err := json.Marshal(generateRequest{
		Contents: []requestContent{{
			Parts: []requestPart{
				{Text: captionPrompt},
				{InlineData: &inlineData{MimeType: "image/jpeg", Data: encoded}},
			},
		}},
	})
	if err != nil {
		return Caption{}, fmt.Errorf("caption: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.endpoint, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Caption{}, fmt.Errorf("caption: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return Caption{}, fmt.Errorf("caption: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Caption{}, fmt.Errorf("caption: read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return Caption{}, ErrQuotaExceeded
	}
	if resp.StatusCode != http.StatusOK {
		var parsed generateResponse
		if json.Unmarshal(body, &parsed) == nil && parsed.Error != nil {
			if parsed.Error.Status == "RESOURCE_EXHAUSTED" {
				return Caption{}, ErrQuotaExceeded
			}
			return Caption{}, fmt.Errorf("caption: provider error %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return Caption{}, fmt.Errorf("caption: provider returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Caption{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	text := ""
	if len(parsed.Candidates) > 0 {
		var sb strings.Builder
		for _, part := range parsed.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
		text = strings.TrimSpace(sb.String())
	}
	if text == "" {
		return Caption{}, fmt.Errorf("%w: empty candidate text", ErrMalformedResponse)
	}

	c.log.WithField("chars", len(text)).Debug("caption response")
	return Parse(text)
}
