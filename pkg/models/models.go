// Package models отображает абстрактные метки моделей из настроек хоста
// на конкретные идентификаторы моделей OpenAI.
//
// Вместо открытой string→string таблицы используем закрытые перечисления
// по модальностям: нераспознанная метка — это явный Unresolved, который
// вызывающий код обязан трактовать как ошибку конфигурации.
package models

import (
	openai "github.com/sashabaranov/go-openai"
)

// ChatModel — закрытое перечисление чат-моделей, которые умеет brain.
type ChatModel int

const (
	ChatUnresolved ChatModel = iota
	ChatGPT35Turbo
	ChatGPT4
	ChatGPT4Turbo
	ChatGPT4Vision
)

// chatLabels — метки, которыми оперирует хост в настройках.
var chatLabels = map[string]ChatModel{
	"gpt-3.5-turbo":        ChatGPT35Turbo,
	"gpt-4":                ChatGPT4,
	"gpt-4-turbo":          ChatGPT4Turbo,
	"gpt-4-vision-preview": ChatGPT4Vision,
}

// ResolveChatModel разбирает метку из настроек.
// Неизвестная метка даёт ChatUnresolved — ошибка конфигурации.
func ResolveChatModel(label string) ChatModel {
	return chatLabels[label]
}

// SelectChatModel выбирает модель для текстового запроса.
//
// Если в окне истории есть хоть одно изображение — принудительно
// vision-модель, игнорируя настроенную метку: обычные чат-модели
// отклоняют multipart-контент с картинками.
func SelectChatModel(label string, hasImages bool) ChatModel {
	if hasImages {
		return ChatGPT4Vision
	}
	return ResolveChatModel(label)
}

// ProviderID возвращает идентификатор модели в API OpenAI.
// Для ChatUnresolved возвращает пустую строку.
func (m ChatModel) ProviderID() string {
	switch m {
	case ChatGPT35Turbo:
		return openai.GPT3Dot5Turbo
	case ChatGPT4:
		return openai.GPT4
	case ChatGPT4Turbo:
		return openai.GPT4Turbo
	case ChatGPT4Vision:
		return openai.GPT4VisionPreview
	default:
		return ""
	}
}

// ImageModel — закрытое перечисление моделей генерации изображений.
type ImageModel int

const (
	ImageUnresolved ImageModel = iota
	ImageDallE2
	ImageDallE3
)

var imageLabels = map[string]ImageModel{
	"dall-e-2": ImageDallE2,
	"dall-e-3": ImageDallE3,
}

// ResolveImageModel разбирает метку модели генерации изображений.
func ResolveImageModel(label string) ImageModel {
	return imageLabels[label]
}

// ProviderID возвращает идентификатор модели в API OpenAI.
func (m ImageModel) ProviderID() string {
	switch m {
	case ImageDallE2:
		return openai.CreateImageModelDallE2
	case ImageDallE3:
		return openai.CreateImageModelDallE3
	default:
		return ""
	}
}

// ForcesSingleOutput сообщает, отклоняет ли модель n>1.
func (m ImageModel) ForcesSingleOutput() bool {
	return m == ImageDallE3
}

// FixedSize возвращает единственный поддерживаемый размер, если модель
// не принимает произвольные размеры из настроек.
func (m ImageModel) FixedSize() (string, bool) {
	if m == ImageDallE3 {
		return openai.CreateImageSize1024x1024, true
	}
	return "", false
}

// ApplyOverrides приводит настроенные count/size к возможностям модели.
//
// Продвинутые модели молча переопределяют пользовательские значения,
// а не отклоняют запрос: пользователь получает результат, пусть и не
// в запрошенном количестве/размере.
func (m ImageModel) ApplyOverrides(count int, size string) (int, string) {
	if m.ForcesSingleOutput() {
		count = 1
	}
	if fixed, ok := m.FixedSize(); ok {
		size = fixed
	}
	return count, size
}
