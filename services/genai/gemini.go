// Package genai implements planner.Completer against the Gemini REST API, plus a canned completer
// for the mock backend.
package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/dannygardner26/GVCS-Main-Page-sub000/core"
	"github.com/dannygardner26/GVCS-Main-Page-sub000/core/planner"
)

type (
	part struct {
		Text string `json:"text"`
	}

	content struct {
		Role  string `json:"role,omitempty"`
		Parts []part `json:"parts"`
	}

	generationConfig struct {
		ResponseMimeType string  `json:"responseMimeType,omitempty"`
		Temperature      float64 `json:"temperature"`
	}

	generateRequest struct {
		Contents         []content        `json:"contents"`
		GenerationConfig generationConfig `json:"generationConfig"`
	}

	generateResponse struct {
		Candidates []struct {
			Content      content `json:"content"`
			FinishReason string  `json:"finishReason"`
		} `json:"candidates"`
		PromptFeedback struct {
			BlockReason string `json:"blockReason"`
		} `json:"promptFeedback"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
)

// GeminiClient asks Gemini for JSON answers.
type GeminiClient struct {
	apiKey  string
	baseURL string
	model   string
	timeout time.Duration
	client  *rest.Client
	logger  core.Logger
}

var _ planner.Completer = (*GeminiClient)(nil) // interface compliance check

func NewGeminiClient(conf core.AIConfig, logger core.Logger) *GeminiClient {
	vala.BeginValidation().Validate(
		vala.StringNotEmpty(conf.APIKey, "conf.APIKey"),
		vala.StringNotEmpty(conf.BaseURL, "conf.BaseURL"),
		vala.StringNotEmpty(conf.Model, "conf.Model"),
		vala.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &GeminiClient{
		apiKey:  conf.APIKey,
		baseURL: strings.TrimSuffix(conf.BaseURL, "/"),
		model:   conf.Model,
		timeout: conf.Timeout,
		client:  &rest.Client{HTTPClient: &http.Client{Timeout: conf.Timeout}},
		logger:  logger,
	}
}

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
}

// Complete sends the prompt and returns the concatenated text of the first candidate.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json", Temperature: 0.7},
	})
	if err != nil {
		return "", errors.Wrap(err, "encoding gemini request")
	}

	req := rest.Request{
		Method:  rest.Post,
		BaseURL: c.endpoint(),
		Headers: map[string]string{
			"Content-Type":   "application/json",
			"x-goog-api-key": c.apiKey,
		},
		Body: body,
	}
	res, err := c.send(ctx, req)
	if err != nil {
		c.logger.Error("calling gemini", err)
		return "", errors.Wrap(planner.ErrCompletionFailed, err.Error())
	}
	return c.parse(res)
}

// send is rest.Client.Send bound to ctx, so cancellation & the timeout reach the HTTP call.
func (c *GeminiClient) send(ctx context.Context, req rest.Request) (*rest.Response, error) {
	httpReq, err := rest.BuildRequestObject(req)
	if err != nil {
		return nil, errors.Wrap(err, "building gemini request")
	}
	httpRes, err := c.client.HTTPClient.Do(httpReq.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer httpRes.Body.Close()
	return rest.BuildResponse(httpRes)
}

func (c *GeminiClient) parse(res *rest.Response) (string, error) {
	var gr generateResponse
	if err := json.Unmarshal([]byte(res.Body), &gr); err != nil && res.StatusCode < http.StatusBadRequest {
		return "", &planner.MalformedResponseError{Reason: "decoding gemini response: " + err.Error(), Raw: res.Body}
	}

	if res.StatusCode >= http.StatusBadRequest {
		msg := fmt.Sprintf("gemini status %d", res.StatusCode)
		if gr.Error != nil {
			msg += ": " + gr.Error.Message
		}
		c.logger.Error(msg, map[string]interface{}{"status": res.StatusCode})
		return "", errors.Wrap(planner.ErrCompletionFailed, msg)
	}
	if gr.PromptFeedback.BlockReason != "" {
		return "", errors.Wrapf(planner.ErrCompletionFailed, "prompt blocked: %s", gr.PromptFeedback.BlockReason)
	}
	if len(gr.Candidates) == 0 {
		return "", &planner.MalformedResponseError{Reason: "no candidates", Raw: res.Body}
	}

	var sb strings.Builder
	for _, p := range gr.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &planner.MalformedResponseError{Reason: "empty candidate", Raw: res.Body}
	}
	return text, nil
}
