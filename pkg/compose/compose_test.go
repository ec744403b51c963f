package compose

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/gethubai/openai-brain/pkg/hubai"
)

// pngBytes кодирует маленькую картинку в PNG для тестов.
func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

// TestCompose_PlainText — ход без картинок всегда уходит простым текстом.
func TestCompose_PlainText(t *testing.T) {
	tests := []struct {
		name string
		turn hubai.ConversationTurn
	}{
		{
			name: "no attachments",
			turn: hubai.ConversationTurn{Role: hubai.RoleUser, Message: "hello"},
		},
		{
			name: "non-image attachment",
			turn: hubai.ConversationTurn{
				Role:    hubai.RoleUser,
				Message: "hello",
				Attachments: []hubai.FileAttachment{
					{Path: "voice.ogg", MimeType: "audio/ogg"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Compose(tt.turn, true, "high", Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msg.Content != "hello" {
				t.Errorf("expected plain text content, got %q", msg.Content)
			}
			if msg.MultiContent != nil {
				t.Error("expected no multipart content")
			}
		})
	}
}

// TestCompose_AssistantIgnoresImages — ходы ассистента уходят текстом,
// даже если хост прислал к ним картинки.
func TestCompose_AssistantIgnoresImages(t *testing.T) {
	turn := hubai.ConversationTurn{
		Role:    hubai.RoleBrain,
		Message: "here is what I see",
		Attachments: []hubai.FileAttachment{
			{Data: []byte{1, 2, 3}, MimeType: "image/png"},
		},
	}

	msg, err := Compose(turn, true, "high", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Role != openai.ChatMessageRoleAssistant {
		t.Errorf("expected brain role mapped to assistant, got %q", msg.Role)
	}
	if msg.Content != "here is what I see" || msg.MultiContent != nil {
		t.Error("assistant turn must stay plain text")
	}
}

// TestCompose_Multipart — текстовая часть идёт первой, затем по одной
// image-части на вложение, каждая как data URI с mime-типом вложения.
func TestCompose_Multipart(t *testing.T) {
	raw := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	turn := hubai.ConversationTurn{
		Role:    hubai.RoleUser,
		Message: "what is this?",
		Attachments: []hubai.FileAttachment{
			{Data: raw, MimeType: "image/png"},
			{Data: raw, MimeType: "image/jpeg"},
		},
	}

	msg, err := Compose(turn, true, "high", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if msg.Content != "" {
		t.Error("multipart message must not carry plain content")
	}
	if len(msg.MultiContent) != 3 {
		t.Fatalf("expected 3 parts, got %d", len(msg.MultiContent))
	}

	if msg.MultiContent[0].Type != openai.ChatMessagePartTypeText ||
		msg.MultiContent[0].Text != "what is this?" {
		t.Error("first part must be the turn text")
	}

	wantURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	if msg.MultiContent[1].ImageURL.URL != wantURI {
		t.Errorf("unexpected data uri: %q", msg.MultiContent[1].ImageURL.URL)
	}
	if !strings.HasPrefix(msg.MultiContent[2].ImageURL.URL, "data:image/jpeg;base64,") {
		t.Error("data uri must carry the attachment mime type")
	}
}

// TestCompose_Fidelity — настроенную детализацию получают только картинки
// последнего хода, все ранние ходы получают low.
func TestCompose_Fidelity(t *testing.T) {
	turn := hubai.ConversationTurn{
		Role:    hubai.RoleUser,
		Message: "look",
		Attachments: []hubai.FileAttachment{
			{Data: []byte{1}, MimeType: "image/png"},
		},
	}

	last, err := Compose(turn, true, "high", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last.MultiContent[1].ImageURL.Detail != openai.ImageURLDetailHigh {
		t.Error("last turn image must get the configured fidelity")
	}

	earlier, err := Compose(turn, false, "high", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if earlier.MultiContent[1].ImageURL.Detail != openai.ImageURLDetailLow {
		t.Error("earlier turn image must get low fidelity")
	}
}

// TestComposeAll — детализация применяется по позиции в окне.
func TestComposeAll(t *testing.T) {
	img := []hubai.FileAttachment{{Data: []byte{7}, MimeType: "image/png"}}
	turns := []hubai.ConversationTurn{
		{Role: hubai.RoleUser, Message: "first", Attachments: img},
		{Role: hubai.RoleBrain, Message: "answer"},
		{Role: hubai.RoleUser, Message: "second", Attachments: img},
	}

	msgs, err := ComposeAll(turns, "high", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}

	if msgs[0].MultiContent[1].ImageURL.Detail != openai.ImageURLDetailLow {
		t.Error("first turn image must be low fidelity")
	}
	if msgs[1].Role != openai.ChatMessageRoleAssistant {
		t.Error("brain role must map to assistant")
	}
	if msgs[2].MultiContent[1].ImageURL.Detail != openai.ImageURLDetailHigh {
		t.Error("last turn image must be high fidelity")
	}
}

// TestCompose_ReadsFromPath — байты читаются с диска, если Data не заполнено.
func TestCompose_ReadsFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	data := pngBytes(t, 4, 4)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	turn := hubai.ConversationTurn{
		Role:    hubai.RoleUser,
		Message: "from disk",
		Attachments: []hubai.FileAttachment{
			{Path: path, MimeType: "image/png"},
		},
	}

	msg, err := Compose(turn, true, "low", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantURI := "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
	if msg.MultiContent[1].ImageURL.URL != wantURI {
		t.Error("expected file bytes inlined from path")
	}
}

// TestCompose_MissingFile — нечитаемое вложение это ошибка, а не пустая часть.
func TestCompose_MissingFile(t *testing.T) {
	turn := hubai.ConversationTurn{
		Role:    hubai.RoleUser,
		Message: "oops",
		Attachments: []hubai.FileAttachment{
			{Path: filepath.Join(t.TempDir(), "absent.png"), MimeType: "image/png"},
		},
	}

	if _, err := Compose(turn, true, "low", Options{}); err == nil {
		t.Fatal("expected error for unreadable attachment")
	}
}

// TestCompose_Downscale — при включённом MaxImageWidth картинка
// перекодируется в JPEG и data URI меняет mime.
func TestCompose_Downscale(t *testing.T) {
	turn := hubai.ConversationTurn{
		Role:    hubai.RoleUser,
		Message: "big picture",
		Attachments: []hubai.FileAttachment{
			{Data: pngBytes(t, 64, 32), MimeType: "image/png"},
		},
	}

	msg, err := Compose(turn, true, "low", Options{MaxImageWidth: 16, ImageQuality: 85})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	uri := msg.MultiContent[1].ImageURL.URL
	if !strings.HasPrefix(uri, "data:image/jpeg;base64,") {
		t.Fatalf("expected jpeg data uri after downscale, got %.40q", uri)
	}

	// Декодируем обратно и проверяем что ширина ограничена
	encoded := strings.TrimPrefix(uri, "data:image/jpeg;base64,")
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode data uri: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode resized image: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("expected width 16 after resize, got %d", img.Bounds().Dx())
	}
}
