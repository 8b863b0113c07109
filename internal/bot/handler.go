package bot

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack/slackevents"

	"github.com/newsmakerhq/newsmaker-bot/config"
	"github.com/newsmakerhq/newsmaker-bot/internal/ai"
	"github.com/newsmakerhq/newsmaker-bot/internal/database"
	"github.com/newsmakerhq/newsmaker-bot/internal/images"
	"github.com/newsmakerhq/newsmaker-bot/internal/models"
	"github.com/newsmakerhq/newsmaker-bot/internal/pipeline"
	"github.com/newsmakerhq/newsmaker-bot/internal/publisher"
)

type MessageHandler struct {
	client    *Client
	pipeline  *pipeline.Pipeline
	posts     *database.PostRepository
	settings  *database.SettingsRepository
	editor    *ai.Editor
	publisher *publisher.Service
	images    *images.Generator
}

func NewMessageHandler(
	client *Client,
	pipe *pipeline.Pipeline,
	posts *database.PostRepository,
	settings *database.SettingsRepository,
	editor *ai.Editor,
	pub *publisher.Service,
	imageGen *images.Generator,
) *MessageHandler {
	return &MessageHandler{
		client:    client,
		pipeline:  pipe,
		posts:     posts,
		settings:  settings,
		editor:    editor,
		publisher: pub,
		images:    imageGen,
	}
}

func (h *MessageHandler) HandleMessage(ctx context.Context, event *slackevents.MessageEvent) error {
	if event.BotID != "" {
		return nil
	}

	if event.User == h.client.GetBotID() {
		return nil
	}

	if event.SubType != "" {
		return nil
	}

	if strings.TrimSpace(event.Text) == "" {
		return nil
	}

	if event.ThreadTimeStamp != "" && event.ThreadTimeStamp != event.TimeStamp {
		return nil
	}

	return h.dispatch(ctx, event.Channel, event.User, event.Text)
}

func (h *MessageHandler) HandleAppMention(ctx context.Context, event *slackevents.AppMentionEvent) error {
	text := strings.TrimSpace(strings.Replace(event.Text, "<@"+h.client.GetBotID()+">", "", 1))
	if text == "" {
		return h.sendHelpMessage(event.Channel)
	}
	return h.dispatch(ctx, event.Channel, event.User, text)
}

func (h *MessageHandler) dispatch(ctx context.Context, channel, slackUser, text string) error {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)
	userID := userKey(slackUser)

	switch {
	case strings.HasPrefix(lower, "помощь"), strings.HasPrefix(lower, "help"):
		return h.sendHelpMessage(channel)

	case strings.HasPrefix(lower, "превью"), strings.HasPrefix(lower, "preview"):
		return h.handlePreview(ctx, channel, argsAfterCommand(text))

	case strings.HasPrefix(lower, "опубликовать"), strings.HasPrefix(lower, "publish"):
		return h.handlePublish(ctx, channel, argsAfterCommand(text))

	case strings.HasPrefix(lower, "редактировать"), strings.HasPrefix(lower, "edit"):
		return h.handleEdit(ctx, channel, argsAfterCommand(text))

	case strings.HasPrefix(lower, "улучшить"), strings.HasPrefix(lower, "improve"):
		return h.handleImprove(ctx, channel, argsAfterCommand(text))

	case strings.HasPrefix(lower, "платформы"), strings.HasPrefix(lower, "platforms"):
		return h.handlePlatforms(ctx, channel, userID, argsAfterCommand(text))

	case strings.HasPrefix(lower, "автопланирование"), strings.HasPrefix(lower, "autoschedule"):
		return h.handleAutoSchedule(ctx, channel, userID, argsAfterCommand(text))

	case strings.HasPrefix(lower, "настройки"), strings.HasPrefix(lower, "settings"):
		return h.handleShowSettings(ctx, channel, userID)
	}

	if url := extractURL(text); url != "" {
		return h.handleArticleURL(ctx, channel, userID, url)
	}

	return h.client.SendMessage(channel,
		"Пришлите ссылку на статью, и я подготовлю посты. Команда `помощь` покажет все возможности.")
}

func (h *MessageHandler) handleArticleURL(ctx context.Context, channel string, userID int64, url string) error {
	if err := h.client.SendMessage(channel, "⏳ Обрабатываю статью, это займет около минуты..."); err != nil {
		logrus.Warnf("failed to send ack: %v", err)
	}

	result, err := h.pipeline.ProcessArticleURL(ctx, url, userID, nil)
	if err != nil {
		return h.client.SendMessage(channel, "❌ "+err.Error())
	}

	image := h.images.CreatePostImage(ctx, result.Title, result.Summary, string(result.Sentiment))

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ *%s*\n\n", result.Title)
	fmt.Fprintf(&sb, "📊 Релевантность: %d/10 | Тональность: %s\n", result.RelevanceScore, result.Sentiment)
	fmt.Fprintf(&sb, "📝 %s\n", result.Summary)
	if image.URL != "" {
		fmt.Fprintf(&sb, "🖼 Иллюстрация: %s\n", image.URL)
	}
	sb.WriteString("\n")

	for platform, post := range result.Posts {
		info, ok := config.Platforms[platform]
		name := platform
		if ok {
			name = info.Name
		}

		fmt.Fprintf(&sb, "*%s* (`%s`)\n", name, post.PostID)
		fmt.Fprintf(&sb, "%s\n", post.Content)
		if post.Hashtags != "" {
			fmt.Fprintf(&sb, "%s\n", post.Hashtags)
		}
		if post.ScheduledAt != nil {
			fmt.Fprintf(&sb, "📅 Запланировано: %s\n", post.ScheduledAt.Format("02.01.2006 15:04"))
		} else {
			sb.WriteString("📝 Черновик. Опубликовать: `опубликовать " + post.PostID + "`\n")
		}
		sb.WriteString("\n")
	}

	return h.client.SendMessage(channel, sb.String())
}

func (h *MessageHandler) handlePreview(ctx context.Context, channel, args string) error {
	url := extractURL(args)
	if url == "" {
		return h.client.SendMessage(channel, "Использование: `превью <ссылка>`")
	}

	preview, err := h.pipeline.QuickPreview(ctx, url)
	if err != nil {
		return h.client.SendMessage(channel, "❌ "+err.Error())
	}

	msg := fmt.Sprintf("*%s*\n_%s_\n\n%s", preview.Title, preview.Domain, preview.ContentPreview)
	return h.client.SendMessage(channel, msg)
}

func (h *MessageHandler) handlePublish(ctx context.Context, channel, args string) error {
	postID := strings.TrimSpace(args)
	if postID == "" {
		return h.client.SendMessage(channel, "Использование: `опубликовать <id поста>`")
	}

	result := h.publisher.PublishNow(ctx, postID)
	if !result.Success {
		return h.client.SendMessage(channel, fmt.Sprintf("❌ Не удалось опубликовать: %s", result.Err))
	}

	return h.client.SendMessage(channel,
		fmt.Sprintf("✅ Пост опубликован в %s (id сообщения: %s)", result.Platform, result.MessageID))
}

func (h *MessageHandler) handleEdit(ctx context.Context, channel, args string) error {
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(parts) < 2 {
		return h.client.SendMessage(channel, "Использование: `редактировать <id поста> <что изменить>`")
	}
	postID, request := parts[0], parts[1]

	post, err := h.posts.GetByID(ctx, postID)
	if err != nil {
		return h.client.SendMessage(channel, "❌ Пост не найден: "+postID)
	}

	result := h.editor.EditPost(ctx, post.Content, request, post.Platform)
	if !result.Success {
		return h.client.SendMessage(channel, "❌ "+result.Changes)
	}

	post.Content = result.EditedPost
	if err := h.posts.Update(ctx, post); err != nil {
		return h.client.SendMessage(channel, "❌ Не удалось сохранить изменения")
	}

	msg := fmt.Sprintf("✏️ Готово: %s\n\n%s", result.Changes, result.EditedPost)
	return h.client.SendMessage(channel, msg)
}

func (h *MessageHandler) handleImprove(ctx context.Context, channel, args string) error {
	postID := strings.TrimSpace(args)
	if postID == "" {
		return h.client.SendMessage(channel, "Использование: `улучшить <id поста>`")
	}

	post, err := h.posts.GetByID(ctx, postID)
	if err != nil {
		return h.client.SendMessage(channel, "❌ Пост не найден: "+postID)
	}

	suggestions := h.editor.SuggestImprovements(ctx, post.Content, post.Platform)
	if len(suggestions) == 0 {
		return h.client.SendMessage(channel, "Предложений нет, пост выглядит хорошо.")
	}

	var sb strings.Builder
	sb.WriteString("💡 *Как улучшить пост:*\n")
	for i, s := range suggestions {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
	}
	return h.client.SendMessage(channel, sb.String())
}

func (h *MessageHandler) handlePlatforms(ctx context.Context, channel string, userID int64, args string) error {
	args = strings.TrimSpace(strings.ToLower(args))
	if args == "" {
		var names []string
		for key, info := range config.Platforms {
			names = append(names, fmt.Sprintf("`%s` (%s)", key, info.Name))
		}
		return h.client.SendMessage(channel,
			"Доступные платформы: "+strings.Join(names, ", ")+"\nИспользование: `платформы telegram,vk,linkedin`")
	}

	var selected []string
	for _, p := range strings.Split(args, ",") {
		p = strings.TrimSpace(p)
		if _, ok := config.Platforms[p]; ok {
			selected = append(selected, p)
		}
	}
	if len(selected) == 0 {
		return h.client.SendMessage(channel, "❌ Ни одна из указанных платформ не поддерживается")
	}

	settings, err := h.loadOrInitSettings(ctx, userID)
	if err != nil {
		return h.client.SendMessage(channel, "❌ Не удалось загрузить настройки")
	}

	settings.PreferredPlatforms = selected
	if err := h.settings.Upsert(ctx, settings); err != nil {
		return h.client.SendMessage(channel, "❌ Не удалось сохранить настройки")
	}

	return h.client.SendMessage(channel, "✅ Платформы обновлены: "+strings.Join(selected, ", "))
}

func (h *MessageHandler) handleAutoSchedule(ctx context.Context, channel string, userID int64, args string) error {
	args = strings.TrimSpace(strings.ToLower(args))

	var enabled bool
	switch args {
	case "вкл", "on":
		enabled = true
	case "выкл", "off":
		enabled = false
	default:
		return h.client.SendMessage(channel, "Использование: `автопланирование вкл` или `автопланирование выкл`")
	}

	settings, err := h.loadOrInitSettings(ctx, userID)
	if err != nil {
		return h.client.SendMessage(channel, "❌ Не удалось загрузить настройки")
	}

	settings.AutoSchedule = enabled
	if err := h.settings.Upsert(ctx, settings); err != nil {
		return h.client.SendMessage(channel, "❌ Не удалось сохранить настройки")
	}

	if enabled {
		return h.client.SendMessage(channel, "✅ Автопланирование включено")
	}
	return h.client.SendMessage(channel, "✅ Автопланирование выключено, посты будут сохраняться черновиками")
}

func (h *MessageHandler) handleShowSettings(ctx context.Context, channel string, userID int64) error {
	settings, err := h.loadOrInitSettings(ctx, userID)
	if err != nil {
		return h.client.SendMessage(channel, "❌ Не удалось загрузить настройки")
	}

	platforms := settings.PreferredPlatforms
	if len(platforms) == 0 {
		platforms = config.DefaultPlatforms
	}

	auto := "выключено"
	if settings.AutoSchedule {
		auto = "включено"
	}

	msg := fmt.Sprintf("*Ваши настройки*\nПлатформы: %s\nАвтопланирование: %s",
		strings.Join(platforms, ", "), auto)
	if settings.BrandName != "" {
		msg += "\nБренд: " + settings.BrandName
	}
	return h.client.SendMessage(channel, msg)
}

func (h *MessageHandler) loadOrInitSettings(ctx context.Context, userID int64) (*models.UserSettings, error) {
	settings, err := h.settings.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = models.NewUserSettings(userID)
	}
	return settings, nil
}

func (h *MessageHandler) sendHelpMessage(channelID string) error {
	helpText := `*Ньюсмейкер*

Пришлите ссылку на новость, и я подготовлю посты для ваших площадок.

*Команды:*
- ` + "`<ссылка>`" + ` - обработать статью и сгенерировать посты
- ` + "`превью <ссылка>`" + ` - быстрый просмотр статьи без генерации
- ` + "`опубликовать <id>`" + ` - опубликовать пост прямо сейчас
- ` + "`редактировать <id> <запрос>`" + ` - изменить текст поста
- ` + "`улучшить <id>`" + ` - получить идеи улучшений
- ` + "`платформы telegram,vk`" + ` - выбрать площадки
- ` + "`автопланирование вкл/выкл`" + ` - управлять расписанием
- ` + "`настройки`" + ` - показать текущие настройки

Запланированные посты публикуются автоматически в указанное время.`

	return h.client.SendMessage(channelID, helpText)
}

// argsAfterCommand drops the first word and returns the rest.
func argsAfterCommand(text string) string {
	parts := strings.SplitN(strings.TrimSpace(text), " ", 2)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// extractURL finds the first http(s) link in the text. Slack wraps links
// in angle brackets with an optional |label suffix.
func extractURL(text string) string {
	for _, field := range strings.Fields(text) {
		field = strings.Trim(field, "<>")
		if idx := strings.Index(field, "|"); idx >= 0 {
			field = field[:idx]
		}
		if strings.HasPrefix(field, "http://") || strings.HasPrefix(field, "https://") {
			return field
		}
	}
	return ""
}

// userKey maps a Slack user ID onto the numeric user key used by storage.
func userKey(slackUser string) int64 {
	h := fnv.New64a()
	h.Write([]byte(slackUser))
	return int64(h.Sum64() & (1<<63 - 1))
}
