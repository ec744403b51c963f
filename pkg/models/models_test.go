package models

import (
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

// TestResolveChatModel — известные метки резолвятся, неизвестные дают
// явный Unresolved.
func TestResolveChatModel(t *testing.T) {
	tests := []struct {
		label string
		want  ChatModel
	}{
		{"gpt-3.5-turbo", ChatGPT35Turbo},
		{"gpt-4", ChatGPT4},
		{"gpt-4-turbo", ChatGPT4Turbo},
		{"gpt-4-vision-preview", ChatGPT4Vision},
		{"llama-70b", ChatUnresolved},
		{"", ChatUnresolved},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			if got := ResolveChatModel(tt.label); got != tt.want {
				t.Errorf("ResolveChatModel(%q) = %v, want %v", tt.label, got, tt.want)
			}
		})
	}
}

// TestSelectChatModel_VisionForced — картинки в окне принудительно
// включают vision-модель, какая бы метка ни была настроена.
func TestSelectChatModel_VisionForced(t *testing.T) {
	if got := SelectChatModel("gpt-3.5-turbo", true); got != ChatGPT4Vision {
		t.Errorf("expected vision model forced, got %v", got)
	}
	if got := SelectChatModel("gpt-3.5-turbo", false); got != ChatGPT35Turbo {
		t.Errorf("expected configured model, got %v", got)
	}
	// Даже нерезолвящаяся метка с картинками даёт vision
	if got := SelectChatModel("nonsense", true); got != ChatGPT4Vision {
		t.Errorf("expected vision model for unknown label with images, got %v", got)
	}
}

// TestChatModelProviderID — Unresolved не имеет идентификатора провайдера.
func TestChatModelProviderID(t *testing.T) {
	if id := ChatUnresolved.ProviderID(); id != "" {
		t.Errorf("expected empty provider id for unresolved model, got %q", id)
	}
	if id := ChatGPT4.ProviderID(); id != openai.GPT4 {
		t.Errorf("expected %q, got %q", openai.GPT4, id)
	}
}

// TestResolveImageModel проверяет таблицу моделей генерации.
func TestResolveImageModel(t *testing.T) {
	if got := ResolveImageModel("dall-e-2"); got != ImageDallE2 {
		t.Errorf("expected ImageDallE2, got %v", got)
	}
	if got := ResolveImageModel("dall-e-3"); got != ImageDallE3 {
		t.Errorf("expected ImageDallE3, got %v", got)
	}
	if got := ResolveImageModel("stable-diffusion"); got != ImageUnresolved {
		t.Errorf("expected ImageUnresolved, got %v", got)
	}
}

// TestApplyOverrides — продвинутая модель молча переопределяет
// настроенные count/size, базовая оставляет их как есть.
func TestApplyOverrides(t *testing.T) {
	t.Run("dall-e-3 forces single fixed-size output", func(t *testing.T) {
		count, size := ImageDallE3.ApplyOverrides(4, "256x256")
		if count != 1 {
			t.Errorf("expected count forced to 1, got %d", count)
		}
		if size != openai.CreateImageSize1024x1024 {
			t.Errorf("expected fixed size, got %q", size)
		}
	})

	t.Run("dall-e-2 keeps configured values", func(t *testing.T) {
		count, size := ImageDallE2.ApplyOverrides(4, "256x256")
		if count != 4 || size != "256x256" {
			t.Errorf("expected configured values untouched, got n=%d size=%q", count, size)
		}
	})
}
