// Базовые типы протокола хост-платформы HubAI.
//
// Хост владеет состоянием диалога и доставкой; brain получает эти
// структуры на время одного вызова и никогда их не сохраняет.
package hubai

import (
	"fmt"
	"strings"
)

// Роли сообщений в терминах хоста
const (
	RoleUser   = "user"
	RoleBrain  = "brain" // на стороне провайдера становится "assistant"
	RoleSystem = "system"
)

// ConversationTurn — одно сообщение диалога с ролью и опциональными вложениями.
// Неизменяемо после получения: windowing отбрасывает старые ходы целиком,
// но никогда не меняет содержимое хода.
type ConversationTurn struct {
	Role        string
	Message     string
	Attachments []FileAttachment
}

// FileAttachment — файл, приложенный к ходу диалога.
// Байты берутся либо из Data, либо читаются по Path (что заполнено).
type FileAttachment struct {
	Path     string
	Data     []byte
	MimeType string
}

// IsImage сообщает, является ли вложение изображением (по префиксу mime-типа).
func (a FileAttachment) IsImage() bool {
	return strings.HasPrefix(a.MimeType, "image/")
}

// ResponseKind — запрошенная кодировка результата генерации изображений.
// Закрытый вариант вместо строковых веток: неизвестное значение — ошибка
// конфигурации, а не молчаливый fallthrough.
type ResponseKind int

const (
	ResponseUnresolved ResponseKind = iota
	ResponseURL
	ResponseBase64
	ResponseBinary
)

// ParseResponseKind разбирает строковое значение из настроек хоста.
func ParseResponseKind(s string) (ResponseKind, error) {
	switch s {
	case "url":
		return ResponseURL, nil
	case "base64":
		return ResponseBase64, nil
	case "binary":
		return ResponseBinary, nil
	default:
		return ResponseUnresolved, fmt.Errorf("unknown expected response type: %q", s)
	}
}

// String возвращает строковое представление для логов.
func (k ResponseKind) String() string {
	switch k {
	case ResponseURL:
		return "url"
	case ResponseBase64:
		return "base64"
	case ResponseBinary:
		return "binary"
	default:
		return "unresolved"
	}
}

// ImagePrompt — запрос генерации изображения от хоста.
type ImagePrompt struct {
	Prompt           string
	ExpectedResponse ResponseKind
}

// ValidationResult — результат проверки настроек.
// Создаётся один раз на вызов; неуспех останавливает всю работу
// до единого сетевого запроса.
type ValidationResult struct {
	Success bool
	Errors  []string
}

// OK возвращает успешный результат валидации.
func OK() ValidationResult {
	return ValidationResult{Success: true}
}

// Invalid возвращает неуспешный результат с объяснением.
func Invalid(errs ...string) ValidationResult {
	return ValidationResult{Success: false, Errors: errs}
}

// Message собирает ошибки в человекочитаемое объяснение для пользователя.
func (v ValidationResult) Message() string {
	return strings.Join(v.Errors, "; ")
}

// ResponseFile — одно вложение в ответе brain'а.
// Заполнено либо Data (сырые байты при binary), либо URL/base64 ссылка
// провайдера без изменений.
type ResponseFile struct {
	Data     []byte
	URL      string
	FileType string
	MimeType string
}

// ResponseEnvelope — единый формат ответа всех трёх операций.
type ResponseEnvelope struct {
	Result      string
	Attachments []ResponseFile
	Validation  ValidationResult
}
