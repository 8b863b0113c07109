package images

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Result describes one generated (or placeholder) image. Success is always
// true for the local placeholder, so callers can rely on getting an image.
type Result struct {
	Success  bool   `json:"success"`
	URL      string `json:"url,omitempty"`
	Base64   string `json:"base64,omitempty"`
	Provider string `json:"provider"`
	Note     string `json:"note,omitempty"`
	Err      string `json:"error,omitempty"`
}

// Generator produces illustration images for posts. Image generation is
// strictly best-effort: any provider failure degrades to a deterministic
// placeholder descriptor instead of an error.
type Generator struct {
	provider string
	apiKey   string
	client   *http.Client
}

func NewGenerator(provider, apiKey string) *Generator {
	return &Generator{
		provider: strings.ToLower(provider),
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// GenerateImage requests an image for the prompt, falling back to a local
// placeholder on any failure.
func (g *Generator) GenerateImage(ctx context.Context, prompt, articleTitle string) Result {
	var result Result

	switch g.provider {
	case "openai":
		result = g.generateDALLE(ctx, prompt)
	case "stability":
		result = g.generateStability(ctx, prompt)
	default:
		return placeholder(prompt, articleTitle)
	}

	if !result.Success {
		logrus.Warnf("image generation via %s failed: %s", g.provider, result.Err)
		return placeholder(prompt, articleTitle)
	}

	return result
}

// CreatePostImage builds a sentiment-aware prompt for an article and
// generates the image.
func (g *Generator) CreatePostImage(ctx context.Context, title, summary, sentiment string) Result {
	styles := map[string]string{
		"positive": "яркие, живые цвета, оптимистичное настроение",
		"negative": "приглушенные цвета, серьезный тон, профессиональный",
		"neutral":  "сбалансированные цвета, чистый дизайн, современный",
	}
	style, ok := styles[sentiment]
	if !ok {
		style = "современный, профессиональный"
	}

	prompt := fmt.Sprintf("Иллюстрация к новости: %s. %s. Стиль: %s", title, summary, style)
	return g.GenerateImage(ctx, prompt, title)
}

var placeholderColors = []string{"FF6B6B", "4ECDC4", "45B7D1", "96CEB4", "FFEAA7", "DFE6E9"}

// placeholder returns a deterministic local image descriptor: the color is
// derived from the title so the same article always renders the same.
func placeholder(prompt, title string) Result {
	seed := title
	if seed == "" {
		seed = prompt
	}

	h := fnv.New32a()
	h.Write([]byte(seed))
	bgColor := placeholderColors[int(h.Sum32())%len(placeholderColors)]

	display := []rune(seed)
	if len(display) > 50 {
		display = display[:50]
	}
	text := strings.ReplaceAll(string(display), " ", "+")

	return Result{
		Success:  true,
		URL:      fmt.Sprintf("https://via.placeholder.com/1024x1024/%s/FFFFFF?text=%s", bgColor, text),
		Provider: "Локальный генератор",
		Note:     "Настройте IMAGE_PROVIDER для использования реальной генерации",
	}
}

func (g *Generator) generateDALLE(ctx context.Context, prompt string) Result {
	reqBody, _ := json.Marshal(map[string]any{
		"prompt": prompt,
		"n":      1,
		"size":   "1024x1024",
		"model":  "dall-e-3",
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.openai.com/v1/images/generations", bytes.NewBuffer(reqBody))
	if err != nil {
		return Result{Err: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{Err: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Err: fmt.Sprintf("DALL-E API error: %d", resp.StatusCode)}
	}

	var body struct {
		Data []struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || len(body.Data) == 0 {
		return Result{Err: "DALL-E: unexpected response"}
	}

	return Result{Success: true, URL: body.Data[0].URL, Provider: "DALL-E 3"}
}

func (g *Generator) generateStability(ctx context.Context, prompt string) Result {
	reqBody, _ := json.Marshal(map[string]any{
		"text_prompts": []map[string]any{{"text": prompt}},
		"cfg_scale":    7,
		"height":       1024,
		"width":        1024,
		"samples":      1,
		"steps":        30,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.stability.ai/v1/generation/stable-diffusion-xl-1024-v1-0/text-to-image",
		bytes.NewBuffer(reqBody))
	if err != nil {
		return Result{Err: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{Err: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Err: fmt.Sprintf("Stability AI error: %d", resp.StatusCode)}
	}

	var body struct {
		Artifacts []struct {
			Base64 string `json:"base64"`
		} `json:"artifacts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || len(body.Artifacts) == 0 {
		return Result{Err: "Stability AI: unexpected response"}
	}

	return Result{Success: true, Base64: body.Artifacts[0].Base64, Provider: "Stability AI"}
}
