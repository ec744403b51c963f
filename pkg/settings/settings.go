// Package settings описывает конфигурацию провайдера, приходящую от хоста.
//
// Настройки приходят свежими на каждый вызов; brain читает их и никогда
// не кэширует (кроме API ключа в кэше клиента). Состав полей менялся
// между версиями хоста, поэтому каждое опциональное поле имеет дефолт —
// нельзя полагаться на то, что хост прислал всё.
package settings

import (
	"strings"

	"github.com/gethubai/openai-brain/pkg/hubai"
)

// Дефолты для незаполненных полей.
const (
	DefaultHistoryBudget   = 3000 // символов текста истории
	DefaultImageFidelity   = "low"
	DefaultGenerationCount = 1
	DefaultGenerationSize  = "1024x1024"
	DefaultAudioModel      = "whisper-1"
	DefaultImageQuality    = 85
)

// MinAPIKeyLength — минимальная правдоподобная длина ключа OpenAI.
const MinAPIKeyLength = 10

// ProviderSettings — настройки провайдера на один вызов.
type ProviderSettings struct {
	APIKey          string `yaml:"api_key"` // Поддерживает ${VAR} при загрузке из файла
	TextModel       string `yaml:"text_model"`
	AudioModel      string `yaml:"audio_model"`
	ImageModel      string `yaml:"image_model"`
	GenerationCount int    `yaml:"generation_count"` // Кол-во изображений за запрос
	GenerationSize  string `yaml:"generation_size"`  // Например "512x512"
	ImageFidelity   string `yaml:"image_fidelity"`   // "low" или "high" для vision
	HistoryBudget   int    `yaml:"history_budget"`   // Бюджет истории в символах
	AudioLanguage   string `yaml:"audio_language"`   // Дефолтный язык транскрипции
	MaxImageWidth   int    `yaml:"max_image_width"`  // 0 = без ресайза вложений
	ImageQuality    int    `yaml:"image_quality"`    // JPEG качество при ресайзе
}

// GetDefaults возвращает копию настроек с заполненными дефолтами.
func (s ProviderSettings) GetDefaults() ProviderSettings {
	result := s

	if result.HistoryBudget <= 0 {
		result.HistoryBudget = DefaultHistoryBudget
	}
	if result.ImageFidelity == "" {
		result.ImageFidelity = DefaultImageFidelity
	}
	if result.GenerationCount <= 0 {
		result.GenerationCount = DefaultGenerationCount
	}
	if result.GenerationSize == "" {
		result.GenerationSize = DefaultGenerationSize
	}
	if result.AudioModel == "" {
		result.AudioModel = DefaultAudioModel
	}
	if result.ImageQuality <= 0 || result.ImageQuality > 100 {
		result.ImageQuality = DefaultImageQuality
	}

	return result
}

// Validate проверяет настройки перед любым сетевым вызовом.
//
// Неуспех означает ошибку конфигурации: операция обязана вернуть
// объяснение пользователю и не трогать сеть. Без побочных эффектов.
func (s ProviderSettings) Validate() hubai.ValidationResult {
	key := strings.TrimSpace(s.APIKey)

	if key == "" {
		return hubai.Invalid("API key is missing: set your OpenAI API key in the brain settings")
	}
	if len(key) < MinAPIKeyLength {
		return hubai.Invalid("API key looks invalid: it must be at least 10 characters long")
	}

	return hubai.OK()
}
