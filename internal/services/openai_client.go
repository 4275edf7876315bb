package services

import (
  "bytes"
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "io"
  "math/rand"
  "net"
  "net/http"
  "os"
  "strconv"
  "strings"
  "time"

  "github.com/yungbote/mentora-backend/internal/logger"
)

// OpenAIClient is the single generative capability the rest of the service
// depends on. Every adapter (classifier, titles, tutor, visuals, speech) goes
// through this interface so test doubles can stand in for the provider.
type OpenAIClient interface {
  GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
  GenerateText(ctx context.Context, system string, user string) (string, error)
  GenerateImage(ctx context.Context, prompt string) (string, error)
  Speech(ctx context.Context, input string, voice string) ([]byte, error)
}

type openAIClient struct {
  log        *logger.Logger
  baseURL    string
  apiKey     string
  model      string
  imageModel string
  ttsModel   string
  httpClient *http.Client

  maxRetries int
}

func NewOpenAIClient(log *logger.Logger) (OpenAIClient, error) {
  apiKey := os.Getenv("OPENAI_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("missing OPENAI_API_KEY")
  }

  baseURL := os.Getenv("OPENAI_BASE_URL")
  if baseURL == "" {
    baseURL = "https://api.openai.com"
  }

  model := os.Getenv("OPENAI_MODEL")
  if model == "" {
    model = "gpt-4o-mini"
  }

  imageModel := os.Getenv("OPENAI_IMAGE_MODEL")
  if imageModel == "" {
    imageModel = "dall-e-3"
  }

  ttsModel := os.Getenv("OPENAI_TTS_MODEL")
  if ttsModel == "" {
    ttsModel = "tts-1"
  }

  // Capability calls are latency-bound network operations; the request
  // deadline doubles as the pipeline's per-step timeout.
  timeoutSec := 30
  if v := os.Getenv("OPENAI_TIMEOUT_SECONDS"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
      timeoutSec = parsed
    }
  }

  // Default 0: the message pipeline degrades to fallbacks instead of
  // retrying; the loop stays configurable for the pass-through endpoints.
  maxRetries := 0
  if v := os.Getenv("OPENAI_MAX_RETRIES"); v != "" {
    if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
      maxRetries = parsed
    }
  }

  return &openAIClient{
    log:        log.With("service", "OpenAIClient"),
    baseURL:    baseURL,
    apiKey:     apiKey,
    model:      model,
    imageModel: imageModel,
    ttsModel:   ttsModel,
    httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
    maxRetries: maxRetries,
  }, nil
}

type openAIHTTPError struct {
  StatusCode int
  Body       string
}

func (e *openAIHTTPError) Error() string {
  return fmt.Sprintf("openai http %d: %s", e.StatusCode, e.Body)
}

func isRetryableHTTP(code int) bool {
  if code == 408 || code == 429 {
    return true
  }
  if code >= 500 && code <= 599 {
    return true
  }
  return false
}

func isRetryableErr(err error) bool {
  if err == nil {
    return false
  }
  if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
    return true
  }
  var netErr net.Error
  if errors.As(err, &netErr) {
    if netErr.Timeout() {
      return true
    }
  }
  var httpErr *openAIHTTPError
  if errors.As(err, &httpErr) {
    return isRetryableHTTP(httpErr.StatusCode)
  }
  return false
}

func jitterSleep(base time.Duration) time.Duration {
  // +/- 20%
  if base <= 0 {
    return 0
  }
  j := 0.2
  delta := base.Seconds() * j
  low := base.Seconds() - delta
  high := base.Seconds() + delta
  if low < 0 {
    low = 0
  }
  v := low + rand.Float64()*(high-low)
  return time.Duration(v * float64(time.Second))
}

func (c *openAIClient) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
  var buf bytes.Buffer
  if body != nil {
    if err := json.NewEncoder(&buf).Encode(body); err != nil {
      return nil, nil, err
    }
  }

  req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
  if err != nil {
    return nil, nil, err
  }
  req.Header.Set("Authorization", "Bearer "+c.apiKey)
  req.Header.Set("Content-Type", "application/json")

  resp, err := c.httpClient.Do(req)
  if err != nil {
    return nil, nil, err
  }

  raw, readErr := io.ReadAll(resp.Body)
  _ = resp.Body.Close()
  if readErr != nil {
    return resp, nil, readErr
  }

  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return resp, raw, &openAIHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
  }
  return resp, raw, nil
}

func (c *openAIClient) doRaw(ctx context.Context, method, path string, body any) ([]byte, error) {
  backoff := 1 * time.Second

  for attempt := 0; attempt <= c.maxRetries; attempt++ {
    if ctx.Err() != nil {
      return nil, ctx.Err()
    }

    resp, raw, err := c.doOnce(ctx, method, path, body)
    if err == nil {
      return raw, nil
    }

    if !isRetryableErr(err) {
      return nil, err
    }
    if attempt == c.maxRetries {
      return nil, err
    }

    // Respect Retry-After when present
    sleepFor := backoff
    if resp != nil {
      ra := strings.TrimSpace(resp.Header.Get("Retry-After"))
      if ra != "" {
        if secs, parseErr := strconv.Atoi(ra); parseErr == nil && secs > 0 {
          sleepFor = time.Duration(secs) * time.Second
        }
      }
    }

    if sleepFor > 10*time.Second {
      sleepFor = 10 * time.Second
    }
    sleepFor = jitterSleep(sleepFor)

    c.log.Warn("OpenAI request retrying",
      "path", path,
      "attempt", attempt+1,
      "max_retries", c.maxRetries,
      "sleep", sleepFor.String(),
      "error", err.Error(),
    )

    time.Sleep(sleepFor)
    backoff *= 2
  }

  return nil, fmt.Errorf("unreachable retry loop")
}

func (c *openAIClient) do(ctx context.Context, method, path string, body any, out any) error {
  raw, err := c.doRaw(ctx, method, path, body)
  if err != nil {
    return err
  }
  if out == nil {
    return nil
  }
  if uErr := json.Unmarshal(raw, out); uErr != nil {
    return fmt.Errorf("openai decode error: %w; raw=%s", uErr, string(raw))
  }
  return nil
}

// ---- Responses (plain text and structured JSON) ----

type responsesMessage struct {
  Role    string `json:"role"`
  Content string `json:"content"`
}

type responsesRequest struct {
  Model string             `json:"model"`
  Input []responsesMessage `json:"input"`
  Text  *struct {
    Format map[string]any `json:"format"`
  } `json:"text,omitempty"`
  Temperature float64 `json:"temperature,omitempty"`
}

type responsesResponse struct {
  Output []struct {
    Type    string `json:"type"`
    Role    string `json:"role,omitempty"`
    Content []struct {
      Type string `json:"type"`
      Text string `json:"text,omitempty"`
    } `json:"content,omitempty"`
  } `json:"output"`
  Refusal string `json:"refusal,omitempty"`
}

func (r *responsesResponse) assistantText() string {
  var text string
  for _, item := range r.Output {
    if item.Type == "message" && item.Role == "assistant" {
      for _, c := range item.Content {
        if c.Type == "output_text" && c.Text != "" {
          text += c.Text
        }
      }
    }
  }
  return text
}

func (c *openAIClient) GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error) {
  if schemaName == "" {
    return nil, errors.New("schemaName required")
  }
  if schema == nil {
    return nil, errors.New("schema required")
  }

  req := responsesRequest{
    Model: c.model,
    Input: []responsesMessage{
      {Role: "system", Content: system},
      {Role: "user", Content: user},
    },
    Temperature: 0.2,
  }
  req.Text = &struct {
    Format map[string]any `json:"format"`
  }{
    Format: map[string]any{
      "type":   "json_schema",
      "name":   schemaName,
      "schema": schema,
      "strict": true,
    },
  }

  var resp responsesResponse
  if err := c.do(ctx, "POST", "/v1/responses", req, &resp); err != nil {
    return nil, err
  }
  if resp.Refusal != "" {
    return nil, fmt.Errorf("model refused: %s", resp.Refusal)
  }

  jsonText := resp.assistantText()
  if jsonText == "" {
    return nil, fmt.Errorf("no output_text found in response")
  }

  var obj map[string]any
  if err := json.Unmarshal([]byte(jsonText), &obj); err != nil {
    return nil, fmt.Errorf("failed to parse model JSON: %w; text=%s", err, jsonText)
  }
  return obj, nil
}

func (c *openAIClient) GenerateText(ctx context.Context, system string, user string) (string, error) {
  req := responsesRequest{
    Model: c.model,
    Input: []responsesMessage{
      {Role: "system", Content: system},
      {Role: "user", Content: user},
    },
    Temperature: 0.7,
  }

  var resp responsesResponse
  if err := c.do(ctx, "POST", "/v1/responses", req, &resp); err != nil {
    return "", err
  }
  if resp.Refusal != "" {
    return "", fmt.Errorf("model refused: %s", resp.Refusal)
  }

  text := resp.assistantText()
  if text == "" {
    return "", fmt.Errorf("no output_text found in response")
  }
  return text, nil
}

// ---- Images ----

type imagesRequest struct {
  Model          string `json:"model"`
  Prompt         string `json:"prompt"`
  N              int    `json:"n"`
  Size           string `json:"size"`
  ResponseFormat string `json:"response_format"`
}

type imagesResponse struct {
  Data []struct {
    URL string `json:"url"`
  } `json:"data"`
}

func (c *openAIClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
  if strings.TrimSpace(prompt) == "" {
    return "", errors.New("prompt required")
  }
  req := imagesRequest{
    Model:          c.imageModel,
    Prompt:         prompt,
    N:              1,
    Size:           "1024x1024",
    ResponseFormat: "url",
  }
  var resp imagesResponse
  if err := c.do(ctx, "POST", "/v1/images/generations", req, &resp); err != nil {
    return "", err
  }
  if len(resp.Data) == 0 || resp.Data[0].URL == "" {
    return "", fmt.Errorf("no image url in response")
  }
  return resp.Data[0].URL, nil
}

// ---- Speech (text-to-speech) ----

type speechRequest struct {
  Model string `json:"model"`
  Input string `json:"input"`
  Voice string `json:"voice"`
}

func (c *openAIClient) Speech(ctx context.Context, input string, voice string) ([]byte, error) {
  if strings.TrimSpace(input) == "" {
    return nil, errors.New("input required")
  }
  if voice == "" {
    voice = "alloy"
  }
  req := speechRequest{
    Model: c.ttsModel,
    Input: input,
    Voice: voice,
  }
  raw, err := c.doRaw(ctx, "POST", "/v1/audio/speech", req)
  if err != nil {
    return nil, err
  }
  if len(raw) == 0 {
    return nil, fmt.Errorf("empty audio response")
  }
  return raw, nil
}
