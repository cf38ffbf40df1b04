package config

import (
	"net"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/terraincognita07/dosalabel/internal/models"
	"github.com/terraincognita07/dosalabel/internal/services"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Auth      AuthConfig      `yaml:"auth"`
	Label     LabelConfig     `yaml:"label"`
	Clinic    ClinicConfig    `yaml:"clinic"`
	Dictation DictationConfig `yaml:"dictation"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"PORT"                    env-default:"8080"`
	Timezone        string        `yaml:"timezone"         env:"TZ"                      env-default:"Asia/Dhaka"`
	DefaultLanguage string        `yaml:"default_language" env:"DEFAULT_LANGUAGE"        env-default:"bn"`
	TemplatesDir    string        `yaml:"templates_dir"    env:"TEMPLATES_DIR"           env-default:"internal/templates"`
	LocalesDir      string        `yaml:"locales_dir"      env:"LOCALES_DIR"             env-default:"internal/i18n/locales"`
	StaticDir       string        `yaml:"static_dir"       env:"STATIC_DIR"              env-default:"web/static"`
	CookieSecure    bool          `yaml:"cookie_secure"    env:"COOKIE_SECURE"           env-default:"false"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig selects where label state lives.
type StorageConfig struct {
	Backend       string `yaml:"backend"        env:"STORAGE_BACKEND" env-default:"sqlite"`
	DBPath        string `yaml:"db_path"        env:"DB_PATH"         env-default:"data/dosalabel.db"`
	RedisAddr     string `yaml:"redis_addr"     env:"REDIS_ADDR"      env-default:"localhost:6379"`
	RedisPassword string `yaml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db"       env:"REDIS_DB"        env-default:"0"`
	StateKey      string `yaml:"state_key"      env:"STATE_KEY"       env-default:"pharmaLabelState"`
}

type AuthConfig struct {
	SecretKey            string        `yaml:"secret_key"             env:"SECRET_KEY"`
	OperatorEmail        string        `yaml:"operator_email"         env:"OPERATOR_EMAIL"`
	OperatorPasswordHash string        `yaml:"operator_password_hash" env:"OPERATOR_PASSWORD_HASH"`
	SessionTTL           time.Duration `yaml:"session_ttl"            env:"SESSION_TTL"            env-default:"720h"`
	LoginMaxAttempts     int           `yaml:"login_max_attempts"     env:"LOGIN_MAX_ATTEMPTS"     env-default:"5"`
	LoginAttemptWindow   time.Duration `yaml:"login_attempt_window"   env:"LOGIN_ATTEMPT_WINDOW"   env-default:"15m"`
}

// LabelConfig holds the values a fresh label starts from.
type LabelConfig struct {
	SerialPrefix string `yaml:"serial_prefix"  env:"LABEL_SERIAL_PREFIX"  env-default:"F/"`
	Drops        int    `yaml:"drops"          env:"LABEL_DROPS"          env-default:"3"`
	ShakeCount   int    `yaml:"shake_count"    env:"LABEL_SHAKE_COUNT"    env-default:"10"`
	Interval     int    `yaml:"interval"       env:"LABEL_INTERVAL"       env-default:"12"`
	DurationDays int    `yaml:"duration_days"  env:"LABEL_DURATION_DAYS"  env-default:"7"`
	FollowUpDays int    `yaml:"follow_up_days" env:"LABEL_FOLLOW_UP_DAYS" env-default:"7"`
	LabelCount   int    `yaml:"label_count"    env:"LABEL_COUNT"          env-default:"1"`
}

// ClinicConfig is the practice footer printed on every label.
type ClinicConfig struct {
	Name      string   `yaml:"name"      env:"CLINIC_NAME"      env-default:"ত্রিফুল আরোগ্য নিকেতন"`
	Subtitle  string   `yaml:"subtitle"  env:"CLINIC_SUBTITLE"  env-default:"(আদর্শ হোমিওপ্যাথিক চিকিৎসালয়)"`
	Doctor    string   `yaml:"doctor"    env:"CLINIC_DOCTOR"    env-default:"ডাঃ নীহার রঞ্জন রায়"`
	Degree    string   `yaml:"degree"    env:"CLINIC_DEGREE"    env-default:"(বি.এস.সি, ডি.এইচ.এম.এস)"`
	Specialty string   `yaml:"specialty" env:"CLINIC_SPECIALTY" env-default:"(শুধুমাত্র জটিল ও পুরাতন রোগী চিকিৎসক)"`
	Location  string   `yaml:"location"  env:"CLINIC_LOCATION"  env-default:"কোটালীপাড়া, গোপালগঞ্জ"`
	Phones    []string `yaml:"phones"    env:"CLINIC_PHONES"    env-default:"01716-954699|01922-788466|01714-719422" env-separator:"|"`
}

type DictationConfig struct {
	Locale         string        `yaml:"locale"          env:"DICTATION_LOCALE"          env-default:"bn-BD"`
	SilenceTimeout time.Duration `yaml:"silence_timeout" env:"DICTATION_SILENCE_TIMEOUT" env-default:"3s"`
}

type LogConfig struct {
	Level      string `yaml:"level"        env:"LOG_LEVEL"        env-default:"info"`
	Format     string `yaml:"format"       env:"LOG_FORMAT"       env-default:"text"`
	File       string `yaml:"file"         env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb"  env:"LOG_MAX_SIZE_MB"  env-default:"10"`
	MaxBackups int    `yaml:"max_backups"  env:"LOG_MAX_BACKUPS"  env-default:"3"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"28"`
}

func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

func (s ServerConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

// LabelDefaults returns the defaults a new label record is built from.
func (c *Config) LabelDefaults() services.LabelDefaults {
	defaults := services.DefaultLabelDefaults()
	defaults.Serial = c.Label.SerialPrefix
	defaults.Drops = c.Label.Drops
	defaults.ShakeCount = c.Label.ShakeCount
	defaults.Interval = c.Label.Interval
	defaults.DurationDays = c.Label.DurationDays
	defaults.FollowUpDays = c.Label.FollowUpDays
	defaults.LabelCount = min(max(c.Label.LabelCount, models.MinLabelCount), models.MaxLabelCount)
	return defaults
}

func (c ClinicConfig) Identity() services.ClinicIdentity {
	return services.ClinicIdentity{
		Name:      c.Name,
		Subtitle:  c.Subtitle,
		Doctor:    c.Doctor,
		Degree:    c.Degree,
		Specialty: c.Specialty,
		Location:  c.Location,
		Phones:    c.Phones,
	}.Normalized()
}

func (a AuthConfig) LoginEnabled() bool {
	return a.OperatorPasswordHash != ""
}
