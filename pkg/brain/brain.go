// Package brain реализует OpenAI brain для хост-платформы HubAI.
//
// Три операции: текстовый промпт (с опциональными изображениями),
// транскрипция аудио и генерация изображений. Brain не владеет
// состоянием диалога — хост присылает историю и настройки на каждый
// вызов; единственное разделяемое состояние — кэш клиента провайдера.
//
// Политика ошибок: ошибки конфигурации возвращаются в конверте с
// человекочитаемым объяснением без единого сетевого вызова; ошибки
// провайдера/транспорта пробрасываются вызывающему как есть — один
// best-effort запрос на операцию, без retry.
package brain

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/gethubai/openai-brain/pkg/compose"
	"github.com/gethubai/openai-brain/pkg/history"
	"github.com/gethubai/openai-brain/pkg/hubai"
	"github.com/gethubai/openai-brain/pkg/models"
	"github.com/gethubai/openai-brain/pkg/respond"
	"github.com/gethubai/openai-brain/pkg/settings"
	"github.com/gethubai/openai-brain/pkg/utils"
)

// Темп скачивания сгенерированных изображений при binary-выводе.
const (
	fetchRatePerSec = 4
	fetchBurst      = 4
)

// ProviderClient — граница с провайдером.
//
// Интерфейс вместо конкретного *openai.Client для подмены в тестах;
// настоящий клиент SDK реализует его без адаптеров.
type ProviderClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateTranscription(ctx context.Context, req openai.AudioRequest) (openai.AudioResponse, error)
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
}

// Проверка что *openai.Client реализует ProviderClient
var _ ProviderClient = (*openai.Client)(nil)

// Brain — точка входа плагина.
type Brain struct {
	cache   *ClientCache
	fetcher *respond.Fetcher
}

// New создаёт brain с настоящим клиентом OpenAI.
func New() *Brain {
	return &Brain{
		cache:   NewClientCache(),
		fetcher: respond.NewFetcher(fetchRatePerSec, fetchBurst),
	}
}

// NewWithProvider создаёт brain с произвольной фабрикой клиента и fetcher'ом.
// Используется в тестах.
func NewWithProvider(build func(apiKey string) ProviderClient, fetcher *respond.Fetcher) *Brain {
	return &Brain{
		cache:   NewClientCacheWithBuilder(build),
		fetcher: fetcher,
	}
}

// Prompt выполняет текстовую операцию: история → окно → сообщения →
// выбор модели → один запрос → конверт.
func (b *Brain) Prompt(ctx context.Context, turns []hubai.ConversationTurn, st settings.ProviderSettings, senderID string) (hubai.ResponseEnvelope, error) {
	st = st.GetDefaults()

	if v := st.Validate(); !v.Success {
		return invalidEnvelope(v), nil
	}

	startTime := time.Now()

	// 1. Обрезаем историю под символьный бюджет
	windowed := history.Window(turns, st.HistoryBudget)

	// 2. Собираем сообщения провайдера; полную детализацию картинок
	// получает только последний ход
	msgs, err := compose.ComposeAll(windowed, st.ImageFidelity, compose.Options{
		MaxImageWidth: st.MaxImageWidth,
		ImageQuality:  st.ImageQuality,
	})
	if err != nil {
		return hubai.ResponseEnvelope{}, err
	}

	// 3. Выбираем модель; наличие картинок в окне принудительно
	// включает vision-модель
	model := models.SelectChatModel(st.TextModel, history.HasImages(windowed))
	if model == models.ChatUnresolved {
		return invalidEnvelope(hubai.Invalid(
			fmt.Sprintf("unknown text model %q: check the brain settings", st.TextModel),
		)), nil
	}

	utils.Debug("prompt request started",
		"model", model.ProviderID(),
		"sender", senderID,
		"turns_total", len(turns),
		"turns_windowed", len(windowed))

	// 4. Один best-effort запрос, ошибки пробрасываем
	resp, err := b.cache.Get(st.APIKey).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    model.ProviderID(),
		Messages: msgs,
	})
	if err != nil {
		utils.Error("completion request failed",
			"error", err,
			"model", model.ProviderID(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return hubai.ResponseEnvelope{}, fmt.Errorf("openai completion: %w", err)
	}

	envelope, err := respond.Text(resp)
	if err != nil {
		return hubai.ResponseEnvelope{}, err
	}

	utils.Info("prompt response received",
		"model", model.ProviderID(),
		"content_length", len(envelope.Result),
		"duration_ms", time.Since(startTime).Milliseconds())

	return envelope, nil
}

// Transcribe распознаёт речь из локального аудиофайла.
func (b *Brain) Transcribe(ctx context.Context, audioPath string, language string, st settings.ProviderSettings) (hubai.ResponseEnvelope, error) {
	st = st.GetDefaults()

	if v := st.Validate(); !v.Success {
		return invalidEnvelope(v), nil
	}

	if language == "" {
		language = st.AudioLanguage
	}

	startTime := time.Now()

	resp, err := b.cache.Get(st.APIKey).CreateTranscription(ctx, openai.AudioRequest{
		Model:    st.AudioModel,
		FilePath: audioPath,
		Language: language,
	})
	if err != nil {
		utils.Error("transcription request failed",
			"error", err,
			"model", st.AudioModel,
			"duration_ms", time.Since(startTime).Milliseconds())
		return hubai.ResponseEnvelope{}, fmt.Errorf("openai transcription: %w", err)
	}

	utils.Info("transcription response received",
		"model", st.AudioModel,
		"duration_ms", time.Since(startTime).Milliseconds())

	return respond.Transcription(resp), nil
}

// GenerateImage генерирует изображения по последнему промпту хоста.
//
// Хост может прислать несколько промптов, используется только последний.
// Продвинутая модель молча переопределяет настроенные count/size.
func (b *Brain) GenerateImage(ctx context.Context, prompts []hubai.ImagePrompt, st settings.ProviderSettings) (hubai.ResponseEnvelope, error) {
	st = st.GetDefaults()

	if v := st.Validate(); !v.Success {
		return invalidEnvelope(v), nil
	}

	if len(prompts) == 0 {
		return invalidEnvelope(hubai.Invalid("no image prompt provided")), nil
	}
	prompt := prompts[len(prompts)-1]

	model := models.ResolveImageModel(st.ImageModel)
	if model == models.ImageUnresolved {
		return invalidEnvelope(hubai.Invalid(
			fmt.Sprintf("unknown image model %q: check the brain settings", st.ImageModel),
		)), nil
	}

	var format string
	switch prompt.ExpectedResponse {
	case hubai.ResponseBase64:
		format = openai.CreateImageResponseFormatB64JSON
	case hubai.ResponseURL, hubai.ResponseBinary:
		// binary докачивается по URL на нашей стороне
		format = openai.CreateImageResponseFormatURL
	default:
		return invalidEnvelope(hubai.Invalid("unknown expected response type for image generation")), nil
	}

	count, size := model.ApplyOverrides(st.GenerationCount, st.GenerationSize)

	startTime := time.Now()

	utils.Debug("image generation started",
		"model", model.ProviderID(),
		"n", count,
		"size", size,
		"response_kind", prompt.ExpectedResponse.String())

	resp, err := b.cache.Get(st.APIKey).CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt.Prompt,
		Model:          model.ProviderID(),
		N:              count,
		Size:           size,
		ResponseFormat: format,
	})
	if err != nil {
		utils.Error("image generation failed",
			"error", err,
			"model", model.ProviderID(),
			"duration_ms", time.Since(startTime).Milliseconds())
		return hubai.ResponseEnvelope{}, fmt.Errorf("openai image generation: %w", err)
	}

	envelope, err := respond.Images(ctx, resp, prompt.ExpectedResponse, b.fetcher)
	if err != nil {
		return hubai.ResponseEnvelope{}, err
	}

	utils.Info("image generation finished",
		"model", model.ProviderID(),
		"images", len(envelope.Attachments),
		"duration_ms", time.Since(startTime).Milliseconds())

	return envelope, nil
}

// invalidEnvelope оборачивает неуспешную валидацию в конверт с объяснением.
func invalidEnvelope(v hubai.ValidationResult) hubai.ResponseEnvelope {
	return hubai.ResponseEnvelope{
		Result:     v.Message(),
		Validation: v,
	}
}
