package api

import (
	"errors"
	"html/template"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/terraincognita07/dosalabel/internal/i18n"
	"github.com/terraincognita07/dosalabel/internal/services"
)

const (
	defaultSessionTTL         = 30 * 24 * time.Hour
	defaultLoginMaxAttempts   = 5
	defaultLoginAttemptWindow = 15 * time.Minute
)

var pageTemplates = []string{"label", "print", "login", "not_found"}

var partialTemplates = []string{"label_previews_partial.html"}

type Handler struct {
	labels       *services.LabelService
	dictation    *services.DictationService
	operators    *services.OperatorAuthService
	secretKey    []byte
	location     *time.Location
	cookieSecure bool
	sessionTTL   time.Duration
	i18n         *i18n.Manager
	logger       *log.Logger
	templates    map[string]*template.Template
	partials     map[string]*template.Template

	clinic services.ClinicIdentity

	dictationLocale  string
	dictationSilence time.Duration

	loginLimiter       *attemptLimiter
	loginMaxAttempts   int
	loginAttemptWindow time.Duration
}

type HandlerOptions struct {
	Labels       *services.LabelService
	Dictation    *services.DictationService
	Operators    *services.OperatorAuthService
	SecretKey    string
	TemplatesDir string
	Location     *time.Location
	I18n         *i18n.Manager
	Logger       *log.Logger
	CookieSecure bool
	SessionTTL   time.Duration
	Clinic       services.ClinicIdentity

	DictationLocale         string
	DictationSilenceTimeout time.Duration

	LoginMaxAttempts   int
	LoginAttemptWindow time.Duration
}

func NewHandler(options HandlerOptions) (*Handler, error) {
	if options.Labels == nil || options.Dictation == nil {
		return nil, errors.New("label and dictation services are required")
	}
	if options.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if strings.TrimSpace(options.SecretKey) == "" {
		return nil, errors.New("secret key is required")
	}
	if options.Operators == nil {
		options.Operators = services.NewOperatorAuthService("", "")
	}
	if options.Location == nil {
		options.Location = options.Labels.Location()
	}
	if options.Logger == nil {
		options.Logger = log.Default()
	}
	if options.SessionTTL <= 0 {
		options.SessionTTL = defaultSessionTTL
	}
	if strings.TrimSpace(options.DictationLocale) == "" {
		options.DictationLocale = services.DefaultDictationLocale
	}
	if options.DictationSilenceTimeout <= 0 {
		options.DictationSilenceTimeout = services.DefaultDictationSilenceTimeout
	}
	options.Clinic = options.Clinic.Normalized()
	if options.Clinic.IsZero() {
		options.Clinic = services.DefaultClinicIdentity()
	}
	if options.LoginMaxAttempts <= 0 {
		options.LoginMaxAttempts = defaultLoginMaxAttempts
	}
	if options.LoginAttemptWindow <= 0 {
		options.LoginAttemptWindow = defaultLoginAttemptWindow
	}

	funcMap := templateFuncMap()
	templates, err := parsePageTemplates(options.TemplatesDir, funcMap, pageTemplates)
	if err != nil {
		return nil, err
	}
	partials, err := parsePartialTemplates(options.TemplatesDir, funcMap, partialTemplates)
	if err != nil {
		return nil, err
	}

	return &Handler{
		labels:             options.Labels,
		dictation:          options.Dictation,
		operators:          options.Operators,
		secretKey:          []byte(options.SecretKey),
		location:           options.Location,
		cookieSecure:       options.CookieSecure,
		sessionTTL:         options.SessionTTL,
		i18n:               options.I18n,
		logger:             options.Logger.WithPrefix("http"),
		templates:          templates,
		partials:           partials,
		clinic:             options.Clinic,
		dictationLocale:    options.DictationLocale,
		dictationSilence:   options.DictationSilenceTimeout,
		loginLimiter:       newAttemptLimiter(),
		loginMaxAttempts:   options.LoginMaxAttempts,
		loginAttemptWindow: options.LoginAttemptWindow,
	}, nil
}

func templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"t":          templateTranslate,
		"richText":   templateRichText,
		"bn":         services.ToBanglaNumerals,
		"bnInt":      services.FormatBanglaInt,
		"optInt":     templateOptionalInt,
		"inputDate":  formatTemplateDate,
		"dict":       templateDict,
		"toJSON":     templateToJSON,
		"isSelected": isTemplateSelected,
		"add": func(left int, right int) int {
			return left + right
		},
		"errorText": func(messages map[string]string, code string) string {
			return translateMessage(messages, errorTranslationKey(code))
		},
		"join": func(values []string, separator string) string {
			return strings.Join(values, separator)
		},
	}
}
