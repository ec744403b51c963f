// Package respond приводит ответы провайдера к единому конверту хоста.
//
// Три формы ответа — чат, транскрипция, генерация изображений — сводятся
// к одному hubai.ResponseEnvelope. Для binary-вывода изображений пакет
// сам докачивает байты по URL провайдера (см. fetch.go).
package respond

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/gethubai/openai-brain/pkg/hubai"
)

// Формат вывода генерации изображений у провайдера.
const (
	imageFileType = "image"
	imageMimeType = "image/png"
)

// Text извлекает текст первого choice и возвращает его как результат.
//
// Пустой список choices — ошибка, а не молчаливый пустой успех:
// такой ответ означает проблему на стороне провайдера или конфигурации.
func Text(resp openai.ChatCompletionResponse) (hubai.ResponseEnvelope, error) {
	if len(resp.Choices) == 0 {
		return hubai.ResponseEnvelope{}, fmt.Errorf("no choices in completion response")
	}

	return hubai.ResponseEnvelope{
		Result:     strings.TrimSpace(resp.Choices[0].Message.Content),
		Validation: hubai.OK(),
	}, nil
}

// Transcription возвращает распознанный текст дословно.
func Transcription(resp openai.AudioResponse) hubai.ResponseEnvelope {
	return hubai.ResponseEnvelope{
		Result:     resp.Text,
		Validation: hubai.OK(),
	}
}

// Images раскладывает ответ генерации по запрошенной кодировке.
//
// url и base64 — значение провайдера проходит без изменений; binary —
// байты докачиваются по URL (конкурентно, с сохранением порядка
// провайдера, всё-или-ничего). Результат пуст: содержимое целиком
// во вложениях, каждое помечено image/png.
func Images(ctx context.Context, resp openai.ImageResponse, kind hubai.ResponseKind, fetcher *Fetcher) (hubai.ResponseEnvelope, error) {
	attachments := make([]hubai.ResponseFile, len(resp.Data))

	switch kind {
	case hubai.ResponseURL:
		for i, datum := range resp.Data {
			attachments[i] = referenceFile(datum.URL)
		}

	case hubai.ResponseBase64:
		for i, datum := range resp.Data {
			attachments[i] = referenceFile(datum.B64JSON)
		}

	case hubai.ResponseBinary:
		urls := make([]string, len(resp.Data))
		for i, datum := range resp.Data {
			urls[i] = datum.URL
		}
		blobs, err := fetcher.FetchAll(ctx, urls)
		if err != nil {
			return hubai.ResponseEnvelope{}, fmt.Errorf("fetch generated images: %w", err)
		}
		for i, blob := range blobs {
			attachments[i] = hubai.ResponseFile{
				Data:     blob,
				FileType: imageFileType,
				MimeType: imageMimeType,
			}
		}

	default:
		return hubai.ResponseEnvelope{}, fmt.Errorf("unresolved expected response type")
	}

	return hubai.ResponseEnvelope{
		Attachments: attachments,
		Validation:  hubai.OK(),
	}, nil
}

func referenceFile(ref string) hubai.ResponseFile {
	return hubai.ResponseFile{
		URL:      ref,
		FileType: imageFileType,
		MimeType: imageMimeType,
	}
}
