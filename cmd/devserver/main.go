// Локальный dev-сервер для прогона brain'а без хост-платформы.
//
// Поднимает три эндпоинта, зеркалящих операции плагина:
//
//	POST /api/prompt      — текстовый промпт с историей
//	POST /api/transcribe  — транскрипция локального аудиофайла
//	POST /api/image       — генерация изображений
//
// Throwaway-инструмент: настройки берутся из config.yaml, каждый вызов
// получает uuid, пишется в sqlite-журнал и (опционально) архивируется в S3.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/gethubai/openai-brain/pkg/archive"
	"github.com/gethubai/openai-brain/pkg/brain"
	"github.com/gethubai/openai-brain/pkg/config"
	"github.com/gethubai/openai-brain/pkg/hubai"
	"github.com/gethubai/openai-brain/pkg/journal"
	"github.com/gethubai/openai-brain/pkg/utils"
)

type server struct {
	cfg     *config.AppConfig
	brain   *brain.Brain
	journal *journal.Journal // nil если журнал выключен
	archive *archive.Client  // nil если архив выключен
}

// Wire-типы dev-сервера. Это не протокол хоста, а удобный JSON для curl.

type attachmentJSON struct {
	Path     string `json:"path"`
	MimeType string `json:"mimeType"`
}

type turnJSON struct {
	Role        string           `json:"role"`
	Message     string           `json:"message"`
	Attachments []attachmentJSON `json:"attachments,omitempty"`
}

type promptRequest struct {
	Sender string     `json:"sender"`
	Turns  []turnJSON `json:"turns"`
}

type transcribeRequest struct {
	Path     string `json:"path"`
	Language string `json:"language"`
}

type imageRequest struct {
	Prompt           string `json:"prompt"`
	ExpectedResponse string `json:"expectedResponse"` // url | base64 | binary
}

type fileJSON struct {
	Data     []byte `json:"data,omitempty"` // base64 в JSON
	URL      string `json:"url,omitempty"`
	FileType string `json:"fileType"`
	MimeType string `json:"mimeType"`
}

type envelopeJSON struct {
	ID          string     `json:"id"`
	Result      string     `json:"result"`
	Attachments []fileJSON `json:"attachments,omitempty"`
	Success     bool       `json:"success"`
	Errors      []string   `json:"errors,omitempty"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "путь к config.yaml")
	flag.Parse()

	if err := utils.InitLogger(); err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}

	ctx, shutdown := utils.SetupGracefulShutdownWithContext()
	defer shutdown()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	srv := &server{cfg: cfg, brain: brain.New()}

	if cfg.Journal.Enabled {
		j, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "journal: %v\n", err)
			os.Exit(1)
		}
		defer j.Close()
		srv.journal = j
	}

	if cfg.Archive.Enabled {
		a, err := archive.New(cfg.Archive)
		if err != nil {
			fmt.Fprintf(os.Stderr, "archive: %v\n", err)
			os.Exit(1)
		}
		srv.archive = a
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/prompt", srv.handlePrompt)
	mux.HandleFunc("POST /api/transcribe", srv.handleTranscribe)
	mux.HandleFunc("POST /api/image", srv.handleImage)

	utils.Info("dev server listening", "addr", cfg.Server.Addr)
	fmt.Printf("openai-brain dev server on %s\n", cfg.Server.Addr)

	httpServer := &http.Server{Addr: cfg.Server.Addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			utils.Warn("server shutdown", "error", err)
		}
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func (s *server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	turns := make([]hubai.ConversationTurn, len(req.Turns))
	for i, t := range req.Turns {
		turn := hubai.ConversationTurn{Role: t.Role, Message: t.Message}
		for _, a := range t.Attachments {
			turn.Attachments = append(turn.Attachments, hubai.FileAttachment{
				Path:     a.Path,
				MimeType: a.MimeType,
			})
		}
		turns[i] = turn
	}

	id := uuid.NewString()
	start := time.Now()

	envelope, err := s.brain.Prompt(r.Context(), turns, s.cfg.Provider, req.Sender)
	s.record(id, "prompt", s.cfg.Provider.TextModel, start, err)
	if err != nil {
		httpError(w, http.StatusBadGateway, err)
		return
	}

	writeEnvelope(w, id, envelope)
}

func (s *server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	id := uuid.NewString()
	start := time.Now()

	envelope, err := s.brain.Transcribe(r.Context(), req.Path, req.Language, s.cfg.Provider)
	s.record(id, "transcribe", s.cfg.Provider.AudioModel, start, err)
	if err != nil {
		httpError(w, http.StatusBadGateway, err)
		return
	}

	writeEnvelope(w, id, envelope)
}

func (s *server) handleImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	kind, err := hubai.ParseResponseKind(req.ExpectedResponse)
	if err != nil {
		httpError(w, http.StatusBadRequest, err)
		return
	}

	id := uuid.NewString()
	start := time.Now()

	envelope, err := s.brain.GenerateImage(r.Context(), []hubai.ImagePrompt{
		{Prompt: req.Prompt, ExpectedResponse: kind},
	}, s.cfg.Provider)
	s.record(id, "generate_image", s.cfg.Provider.ImageModel, start, err)
	if err != nil {
		httpError(w, http.StatusBadGateway, err)
		return
	}

	// Binary-результаты по желанию складываем в S3-архив
	if s.archive != nil && kind == hubai.ResponseBinary {
		for i, att := range envelope.Attachments {
			key := fmt.Sprintf("generated/%s-%d.png", id, i)
			if err := s.archive.Upload(r.Context(), key, att.Data, att.MimeType); err != nil {
				utils.Warn("archive upload failed", "key", key, "error", err)
			}
		}
	}

	writeEnvelope(w, id, envelope)
}

// record пишет запись в журнал, если он включён.
func (s *server) record(id, op, model string, start time.Time, callErr error) {
	if s.journal == nil {
		return
	}

	entry := journal.Entry{
		ID:        id,
		Operation: op,
		Model:     model,
		Duration:  time.Since(start),
		OK:        callErr == nil,
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}

	if err := s.journal.Record(entry); err != nil {
		utils.Warn("journal record failed", "id", id, "error", err)
	}
}

func writeEnvelope(w http.ResponseWriter, id string, envelope hubai.ResponseEnvelope) {
	resp := envelopeJSON{
		ID:      id,
		Result:  envelope.Result,
		Success: envelope.Validation.Success,
		Errors:  envelope.Validation.Errors,
	}
	for _, att := range envelope.Attachments {
		resp.Attachments = append(resp.Attachments, fileJSON{
			Data:     att.Data,
			URL:      att.URL,
			FileType: att.FileType,
			MimeType: att.MimeType,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		utils.Warn("response encode failed", "id", id, "error", err)
	}
}

func httpError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
