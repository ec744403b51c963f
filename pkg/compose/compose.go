// Package compose превращает ход диалога хоста в сообщение формата OpenAI.
//
// Здесь происходит магия Vision: текст и картинки одного хода
// мультиплексируются в MultiContent, а байты картинок инлайнятся как
// base64 data URI — провайдеру никогда не нужен доступ к файловой
// системе хоста.
package compose

import (
	"encoding/base64"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"github.com/gethubai/openai-brain/pkg/hubai"
	"github.com/gethubai/openai-brain/pkg/utils"
)

// Options — параметры подготовки вложений.
type Options struct {
	// MaxImageWidth > 0 включает даунскейл картинок перед инлайном,
	// ограничивая размер запроса. После ресайза mime всегда image/jpeg.
	MaxImageWidth int
	// ImageQuality — JPEG качество при ресайзе (1-100).
	ImageQuality int
}

// Compose конвертирует один ход диалога в сообщение OpenAI.
//
// Правила:
//   - роль "brain" становится "assistant", остальные роли проходят как есть;
//   - ход без картинок-вложений, а также любой ход ассистента,
//     отправляется простым текстом;
//   - иначе строится MultiContent: сначала текстовая часть, затем по
//     одной image-части на каждое изображение;
//   - настроенную детализацию (fidelity) получают только картинки
//     последнего хода уже обрезанного окна; картинки всех ранних ходов
//     получают "low", чтобы ограничить размер и стоимость запроса.
func Compose(turn hubai.ConversationTurn, isLast bool, defaultFidelity string, opts Options) (openai.ChatCompletionMessage, error) {
	msg := openai.ChatCompletionMessage{
		Role: mapRole(turn.Role),
	}

	images := imageAttachments(turn)

	// Ассистенту картинки не отправляем: его ходы — это прошлые ответы
	// модели, им multipart не нужен.
	if len(images) == 0 || msg.Role == openai.ChatMessageRoleAssistant {
		msg.Content = turn.Message
		return msg, nil
	}

	detail := openai.ImageURLDetailLow
	if isLast {
		detail = mapFidelity(defaultFidelity)
	}

	parts := []openai.ChatMessagePart{
		{
			Type: openai.ChatMessagePartTypeText,
			Text: turn.Message,
		},
	}

	for _, att := range images {
		uri, err := inlineImage(att, opts)
		if err != nil {
			return openai.ChatCompletionMessage{}, err
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    uri,
				Detail: detail,
			},
		})
	}

	msg.MultiContent = parts
	return msg, nil
}

// ComposeAll конвертирует уже обрезанное окно истории целиком.
// Последний ход получает настроенную детализацию картинок.
func ComposeAll(turns []hubai.ConversationTurn, defaultFidelity string, opts Options) ([]openai.ChatCompletionMessage, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(turns))
	for i, turn := range turns {
		msg, err := Compose(turn, i == len(turns)-1, defaultFidelity, opts)
		if err != nil {
			return nil, fmt.Errorf("compose turn %d: %w", i, err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

// inlineImage читает байты вложения и возвращает base64 data URI.
func inlineImage(att hubai.FileAttachment, opts Options) (string, error) {
	data := att.Data
	if len(data) == 0 {
		var err error
		data, err = os.ReadFile(att.Path)
		if err != nil {
			return "", fmt.Errorf("read attachment %s: %w", att.Path, err)
		}
	}

	mime := att.MimeType

	if opts.MaxImageWidth > 0 {
		resized, err := utils.ResizeImage(data, opts.MaxImageWidth, opts.ImageQuality)
		if err != nil {
			return "", fmt.Errorf("resize attachment: %w", err)
		}
		data = resized
		mime = "image/jpeg"
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf("data:%s;base64,%s", mime, encoded), nil
}

func imageAttachments(turn hubai.ConversationTurn) []hubai.FileAttachment {
	var images []hubai.FileAttachment
	for _, att := range turn.Attachments {
		if att.IsImage() {
			images = append(images, att)
		}
	}
	return images
}

func mapRole(role string) string {
	if role == hubai.RoleBrain {
		return openai.ChatMessageRoleAssistant
	}
	return role
}

func mapFidelity(fidelity string) openai.ImageURLDetail {
	if fidelity == "high" {
		return openai.ImageURLDetailHigh
	}
	return openai.ImageURLDetailLow
}
