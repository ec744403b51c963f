package hubai

import "testing"

// TestFileAttachmentIsImage — изображения определяются по префиксу mime-типа.
func TestFileAttachmentIsImage(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"image/png", true},
		{"image/jpeg", true},
		{"image/webp", true},
		{"audio/ogg", false},
		{"application/pdf", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			att := FileAttachment{MimeType: tt.mime}
			if got := att.IsImage(); got != tt.want {
				t.Errorf("IsImage(%q) = %v, want %v", tt.mime, got, tt.want)
			}
		})
	}
}

// TestParseResponseKind — закрытый вариант: неизвестное значение это ошибка.
func TestParseResponseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    ResponseKind
		wantErr bool
	}{
		{"url", ResponseURL, false},
		{"base64", ResponseBase64, false},
		{"binary", ResponseBinary, false},
		{"hex", ResponseUnresolved, true},
		{"", ResponseUnresolved, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseResponseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseResponseKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseResponseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestValidationResultMessage собирает ошибки в одно объяснение.
func TestValidationResultMessage(t *testing.T) {
	v := Invalid("first problem", "second problem")
	if v.Success {
		t.Fatal("expected unsuccessful result")
	}
	if v.Message() != "first problem; second problem" {
		t.Errorf("unexpected message: %q", v.Message())
	}

	if !OK().Success {
		t.Error("OK() must be successful")
	}
}
