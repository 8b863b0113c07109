package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slack-go/slack"
)

// Result is the uniform outcome of one delivery attempt. Unknown platforms,
// missing channel configuration and transport failures all produce the same
// shape so manual and scheduled callers share one handling path.
type Result struct {
	Success   bool   `json:"success"`
	Platform  string `json:"platform"`
	MessageID string `json:"message_id,omitempty"`
	Err       string `json:"error,omitempty"`
}

// Channels maps platforms to their destination identifiers.
type Channels struct {
	TelegramChannelID string
	VKGroupID         string
	SlackChannelID    string
}

// Publisher delivers post content over platform-specific transports.
// It never returns an error and never retries: failures are folded into
// the Result and retry policy belongs to the caller.
type Publisher struct {
	telegramToken string
	vkToken       string
	slackAPI      *slack.Client
	client        *http.Client
}

// New wires the transport credentials. The slack client may be nil when
// Slack is not configured.
func New(telegramToken, vkToken string, slackAPI *slack.Client) *Publisher {
	return &Publisher{
		telegramToken: telegramToken,
		vkToken:       vkToken,
		slackAPI:      slackAPI,
		client:        &http.Client{Timeout: 15 * time.Second},
	}
}

// Deliver sends already-formatted content to the platform's channel.
func (p *Publisher) Deliver(ctx context.Context, platform, content string, ch Channels) Result {
	switch platform {
	case "telegram":
		if ch.TelegramChannelID == "" {
			return failure(platform, "telegram channel is not configured")
		}
		return p.postToTelegram(ctx, ch.TelegramChannelID, content)

	case "vk":
		if ch.VKGroupID == "" {
			return failure(platform, "vk group is not configured")
		}
		return p.postToVK(ctx, ch.VKGroupID, content)

	case "slack":
		if p.slackAPI == nil || ch.SlackChannelID == "" {
			return failure(platform, "slack channel is not configured")
		}
		return p.postToSlack(ctx, ch.SlackChannelID, content)

	default:
		return failure(platform, fmt.Sprintf("unsupported platform: %s", platform))
	}
}

func failure(platform, reason string) Result {
	return Result{Success: false, Platform: platform, Err: reason}
}

type telegramResponse struct {
	OK     bool `json:"ok"`
	Result struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
	Description string `json:"description"`
}

func (p *Publisher) postToTelegram(ctx context.Context, channelID, content string) Result {
	endpoint := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", p.telegramToken)
	form := url.Values{}
	form.Set("chat_id", channelID)
	form.Set("text", content)
	form.Set("parse_mode", "HTML")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return failure("telegram", err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return failure("telegram", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failure("telegram", fmt.Sprintf("Telegram API error: %d", resp.StatusCode))
	}

	var body telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return failure("telegram", fmt.Sprintf("decode response: %v", err))
	}
	if !body.OK {
		return failure("telegram", body.Description)
	}

	return Result{
		Success:   true,
		Platform:  "telegram",
		MessageID: fmt.Sprintf("%d", body.Result.MessageID),
	}
}

type vkResponse struct {
	Response *struct {
		PostID int64 `json:"post_id"`
	} `json:"response"`
	Error *struct {
		ErrorMsg string `json:"error_msg"`
	} `json:"error"`
}

func (p *Publisher) postToVK(ctx context.Context, groupID, content string) Result {
	params := url.Values{}
	params.Set("access_token", p.vkToken)
	params.Set("v", "5.131")
	params.Set("owner_id", "-"+groupID)
	params.Set("message", content)
	params.Set("from_group", "1")

	endpoint := "https://api.vk.com/method/wall.post?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return failure("vk", err.Error())
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return failure("vk", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return failure("vk", fmt.Sprintf("VK API error: %d", resp.StatusCode))
	}

	var body vkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return failure("vk", fmt.Sprintf("decode response: %v", err))
	}
	if body.Response == nil {
		reason := "Unknown error"
		if body.Error != nil && body.Error.ErrorMsg != "" {
			reason = body.Error.ErrorMsg
		}
		return failure("vk", reason)
	}

	return Result{
		Success:   true,
		Platform:  "vk",
		MessageID: fmt.Sprintf("%d", body.Response.PostID),
	}
}

func (p *Publisher) postToSlack(ctx context.Context, channelID, content string) Result {
	_, timestamp, err := p.slackAPI.PostMessageContext(
		ctx,
		channelID,
		slack.MsgOptionText(content, false),
	)
	if err != nil {
		return failure("slack", err.Error())
	}

	return Result{
		Success:   true,
		Platform:  "slack",
		MessageID: timestamp,
	}
}
