package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/terraincognita07/dosalabel/internal/models"
)

const (
	DefaultDictationLocale         = "bn-BD"
	DefaultDictationSilenceTimeout = 3 * time.Second
)

var (
	ErrDictationInactive   = errors.New("dictation session is not active")
	ErrDictationPermission = errors.New("microphone permission denied")
)

// DictationEvent is one recognition result pushed by the browser.
type DictationEvent struct {
	Text    string `json:"text"`
	IsFinal bool   `json:"is_final"`
}

type DictationResult struct {
	SessionID   string `json:"session_id,omitempty"`
	PatientName string `json:"patient_name"`
	Active      bool   `json:"active"`
}

type PatientNameStore interface {
	Load(ctx context.Context, workspace string) (models.LabelRecord, error)
	SetPatientName(ctx context.Context, workspace string, name string) (models.LabelRecord, error)
}

type DictationOptions struct {
	SilenceTimeout time.Duration
	Logger         *log.Logger
}

// DictationService feeds live speech transcripts into the patient name. At
// most one session per workspace is active; starting again supersedes it.
type DictationService struct {
	labels         PatientNameStore
	silenceTimeout time.Duration
	logger         *log.Logger

	mu       sync.Mutex
	sessions map[string]*dictationSession
}

type dictationSession struct {
	id         string
	transcript string
	timer      *time.Timer
}

func NewDictationService(labels PatientNameStore, options DictationOptions) *DictationService {
	if options.SilenceTimeout <= 0 {
		options.SilenceTimeout = DefaultDictationSilenceTimeout
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	return &DictationService{
		labels:         labels,
		silenceTimeout: options.SilenceTimeout,
		logger:         options.Logger,
		sessions:       make(map[string]*dictationSession),
	}
}

func (service *DictationService) Start(ctx context.Context, workspace string) (DictationResult, error) {
	record, err := service.labels.Load(ctx, workspace)
	if err != nil {
		return DictationResult{}, err
	}

	transcript := record.PatientName
	if transcript != "" && !strings.HasSuffix(transcript, " ") {
		transcript += " "
	}

	service.mu.Lock()
	defer service.mu.Unlock()

	if previous, ok := service.sessions[workspace]; ok {
		previous.timer.Stop()
	}
	session := &dictationSession{id: uuid.NewString(), transcript: transcript}
	session.timer = service.scheduleSilenceStop(workspace, session.id)
	service.sessions[workspace] = session

	return DictationResult{SessionID: session.id, PatientName: record.PatientName, Active: true}, nil
}

// Push applies recognition events. Final text is kept; interim text is only
// shown until the engine replaces it.
func (service *DictationService) Push(ctx context.Context, workspace string, sessionID string, events []DictationEvent) (DictationResult, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	session, ok := service.sessions[workspace]
	if !ok || session.id != sessionID {
		return DictationResult{}, ErrDictationInactive
	}
	session.timer.Reset(service.silenceTimeout)

	finalPiece := ""
	interim := ""
	for _, event := range events {
		if event.IsFinal {
			finalPiece += event.Text
			continue
		}
		interim += event.Text
	}
	if finalPiece != "" {
		session.transcript += finalPiece + " "
	}

	name := strings.TrimRight(session.transcript, " ")
	if interim != "" {
		name += " " + interim
	}
	name = strings.TrimLeft(name, " ")

	record, err := service.labels.SetPatientName(ctx, workspace, name)
	if err != nil {
		return DictationResult{}, err
	}
	return DictationResult{SessionID: session.id, PatientName: record.PatientName, Active: true}, nil
}

// Stop ends the active session and commits the final transcript. Stopping an
// inactive workspace is a no-op that reports the current name.
func (service *DictationService) Stop(ctx context.Context, workspace string) (DictationResult, error) {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.finishLocked(ctx, workspace, "")
}

// Fail ends the session after a recognition error. Permission failures are
// reported as ErrDictationPermission so the operator can be told.
func (service *DictationService) Fail(ctx context.Context, workspace string, sessionID string, code string) (DictationResult, error) {
	service.mu.Lock()
	defer service.mu.Unlock()

	result, err := service.finishLocked(ctx, workspace, sessionID)
	if err != nil {
		return result, err
	}
	switch strings.TrimSpace(code) {
	case "not-allowed", "service-not-allowed":
		return result, ErrDictationPermission
	default:
		return result, nil
	}
}

func (service *DictationService) IsActive(workspace string) bool {
	service.mu.Lock()
	defer service.mu.Unlock()
	_, ok := service.sessions[workspace]
	return ok
}

func (service *DictationService) scheduleSilenceStop(workspace string, sessionID string) *time.Timer {
	return time.AfterFunc(service.silenceTimeout, func() {
		service.mu.Lock()
		defer service.mu.Unlock()

		session, ok := service.sessions[workspace]
		if !ok || session.id != sessionID {
			return
		}
		if _, err := service.finishLocked(context.Background(), workspace, sessionID); err != nil {
			service.logger.Error("dictation auto-stop failed", "workspace", workspace, "err", err)
			return
		}
		service.logger.Debug("dictation stopped after silence", "workspace", workspace)
	})
}

// finishLocked removes the session (only if it matches sessionID when one is
// given) and writes the trimmed transcript as the patient name.
func (service *DictationService) finishLocked(ctx context.Context, workspace string, sessionID string) (DictationResult, error) {
	session, ok := service.sessions[workspace]
	if !ok || (sessionID != "" && session.id != sessionID) {
		record, err := service.labels.Load(ctx, workspace)
		if err != nil {
			return DictationResult{}, err
		}
		return DictationResult{PatientName: record.PatientName}, nil
	}

	session.timer.Stop()
	delete(service.sessions, workspace)

	finalName := strings.TrimSpace(session.transcript)
	if finalName == "" {
		record, err := service.labels.Load(ctx, workspace)
		if err != nil {
			return DictationResult{}, err
		}
		return DictationResult{PatientName: record.PatientName}, nil
	}

	record, err := service.labels.SetPatientName(ctx, workspace, finalName)
	if err != nil {
		return DictationResult{}, err
	}
	return DictationResult{PatientName: record.PatientName}, nil
}
