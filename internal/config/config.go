// Package config предоставляет конфигурацию приложения с сохранением в файл.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Источники событий клавиши-триггера.
const (
	SourceTap   = "tap"   // Одиночный модификатор (CGEventTap / gohook)
	SourceCombo = "combo" // Обычная горячая клавиша
)

// Переменные окружения, перекрывающие файл. В файл не сохраняются.
const (
	EnvSidecar       = "SPACEDUCK_SIDECAR"
	EnvServerURL     = "SPACEDUCK_SERVER_URL"
	EnvBridgeAddr    = "SPACEDUCK_BRIDGE_ADDR"
	EnvTriggerKey    = "SPACEDUCK_TRIGGER_KEY"
	EnvTriggerSource = "SPACEDUCK_TRIGGER_SOURCE"
)

// Duration - time.Duration, который хранится в JSON строкой ("2s").
type Duration time.Duration

// Std возвращает time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// MarshalJSON пишет длительность строкой.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON принимает строку ("2s") или число наносекунд.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("длительность %q: %w", s, err)
		}
		*d = Duration(v)
		return nil
	}

	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("длительность: %w", err)
	}
	*d = Duration(n)
	return nil
}

// TriggerConfig хранит настройки клавиши-триггера.
type TriggerConfig struct {
	Source string       `json:"source"`
	Key    string       `json:"key"`
	Combo  HotkeyConfig `json:"combo"`
}

// SidecarConfig хранит настройки фонового процесса диктовки.
type SidecarConfig struct {
	Path         string   `json:"path,omitempty"`
	Args         []string `json:"args,omitempty"`
	ServerURL    string   `json:"server_url"`
	PollInterval Duration `json:"poll_interval"`
	MaxWait      Duration `json:"max_wait"`
	OpenUI       bool     `json:"open_ui"`
}

// configData структура для сериализации.
type configData struct {
	UILanguage    string        `json:"ui_language,omitempty"`
	Notifications bool          `json:"notifications"`
	Trigger       TriggerConfig `json:"trigger"`
	WindowTitle   string        `json:"window_title,omitempty"`
	Backoff       Duration      `json:"backoff,omitempty"`
	PumpQuantum   Duration      `json:"pump_quantum,omitempty"`
	Sidecar       SidecarConfig `json:"sidecar"`
	BridgeAddr    string        `json:"bridge_addr,omitempty"`
}

// Config хранит настройки приложения.
type Config struct {
	mu         sync.RWMutex
	data       configData
	env        map[string]string
	dir        string
	configPath string
}

// defaults возвращает настройки по умолчанию.
func defaults() configData {
	key := "fn"
	if runtime.GOOS != "darwin" {
		key = "ctrl" // Fn не виден системе на PC
	}

	return configData{
		UILanguage:    "ru",
		Notifications: true,
		Trigger: TriggerConfig{
			Source: SourceTap,
			Key:    key,
			Combo: HotkeyConfig{
				Modifiers: []Modifier{ModCtrl, ModShift},
				Key:       KeySpace,
			},
		},
		WindowTitle: "spaceduck",
		Backoff:     Duration(2 * time.Second),
		PumpQuantum: Duration(5 * time.Second),
		Sidecar: SidecarConfig{
			ServerURL:    "http://localhost:3000",
			PollInterval: Duration(200 * time.Millisecond),
			MaxWait:      Duration(15 * time.Second),
		},
		BridgeAddr: "127.0.0.1:7391",
	}
}

// New создаёт конфигурацию рядом с бинарником, загружая из файла или с
// настройками по умолчанию.
func New() *Config {
	dir := ""
	// Определяем путь к файлу конфигурации рядом с бинарником
	execPath, err := os.Executable()
	if err == nil {
		// Резолвим симлинки
		execPath, err = filepath.EvalSymlinks(execPath)
		if err == nil {
			dir = filepath.Dir(execPath)
		}
	}
	return NewAt(dir)
}

// NewAt создаёт конфигурацию в каталоге dir. Пустой dir - только defaults.
func NewAt(dir string) *Config {
	c := &Config{
		data: defaults(),
		dir:  dir,
	}
	if dir != "" {
		c.configPath = filepath.Join(dir, "config.json")
		// .env не обязателен: переменные процесса всё равно читаются ниже
		_ = godotenv.Load(filepath.Join(dir, ".env"))
	}

	c.load()
	c.env = readEnv()
	return c
}

func readEnv() map[string]string {
	env := make(map[string]string)
	for _, name := range []string{EnvSidecar, EnvServerURL, EnvBridgeAddr, EnvTriggerKey, EnvTriggerSource} {
		if v := os.Getenv(name); v != "" {
			env[name] = v
		}
	}
	return env
}

// load загружает конфигурацию из файла.
func (c *Config) load() {
	if c.configPath == "" {
		return
	}

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return // Файл не существует, используем defaults
	}

	cfg := defaults()
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("Ошибка чтения %s: %v", c.configPath, err)
		return
	}

	// Пустые значения в файле не затирают defaults
	def := defaults()
	if cfg.Trigger.Source == "" {
		cfg.Trigger.Source = def.Trigger.Source
	}
	if cfg.Trigger.Key == "" {
		cfg.Trigger.Key = def.Trigger.Key
	}
	if cfg.Trigger.Combo.Key == "" {
		cfg.Trigger.Combo = def.Trigger.Combo
	}
	if cfg.WindowTitle == "" {
		cfg.WindowTitle = def.WindowTitle
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = def.Backoff
	}
	if cfg.PumpQuantum <= 0 {
		cfg.PumpQuantum = def.PumpQuantum
	}
	if cfg.Sidecar.ServerURL == "" {
		cfg.Sidecar.ServerURL = def.Sidecar.ServerURL
	}
	if cfg.Sidecar.PollInterval <= 0 {
		cfg.Sidecar.PollInterval = def.Sidecar.PollInterval
	}
	if cfg.Sidecar.MaxWait <= 0 {
		cfg.Sidecar.MaxWait = def.Sidecar.MaxWait
	}
	if cfg.BridgeAddr == "" {
		cfg.BridgeAddr = def.BridgeAddr
	}
	c.data = cfg
}

// save сохраняет конфигурацию в файл.
func (c *Config) save() {
	if c.configPath == "" {
		return
	}

	data, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		return
	}

	if err := os.WriteFile(c.configPath, data, 0644); err != nil {
		log.Printf("Ошибка сохранения конфигурации: %v", err)
	}
}

// Dir возвращает каталог конфигурации (пусто, если не определён).
func (c *Config) Dir() string {
	return c.dir
}

func (c *Config) envOr(name, value string) string {
	if v, ok := c.env[name]; ok {
		return v
	}
	return value
}

// TriggerSource возвращает источник событий триггера (tap или combo).
func (c *Config) TriggerSource() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.envOr(EnvTriggerSource, c.data.Trigger.Source)
}

// TriggerKey возвращает имя клавиши-триггера.
func (c *Config) TriggerKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.envOr(EnvTriggerKey, c.data.Trigger.Key)
}

// SetTriggerKey устанавливает клавишу-триггер.
func (c *Config) SetTriggerKey(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Trigger.Key = key
	delete(c.env, EnvTriggerKey)
	c.save()
}

// Hotkey возвращает комбинацию для источника combo.
func (c *Config) Hotkey() HotkeyConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Trigger.Combo
}

// SetHotkey устанавливает комбинацию для источника combo.
func (c *Config) SetHotkey(hk HotkeyConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Trigger.Combo = hk
	c.save()
}

// WindowTitle возвращает заголовок главного окна, по которому определяется фокус.
func (c *Config) WindowTitle() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.WindowTitle
}

// Backoff возвращает паузу между попытками установки слушателя.
func (c *Config) Backoff() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Backoff.Std()
}

// PumpQuantum возвращает квант цикла событий слушателя.
func (c *Config) PumpQuantum() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.PumpQuantum.Std()
}

// Sidecar возвращает настройки фонового процесса с учётом окружения.
func (c *Config) Sidecar() SidecarConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	sc := c.data.Sidecar
	sc.Args = append([]string(nil), sc.Args...)
	sc.Path = c.envOr(EnvSidecar, sc.Path)
	sc.ServerURL = c.envOr(EnvServerURL, sc.ServerURL)
	return sc
}

// BridgeAddr возвращает адрес websocket-моста для UI.
func (c *Config) BridgeAddr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.envOr(EnvBridgeAddr, c.data.BridgeAddr)
}

// ToggleNotifications переключает состояние уведомлений.
func (c *Config) ToggleNotifications() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Notifications = !c.data.Notifications
	c.save()
	return c.data.Notifications
}

// NotificationsEnabled возвращает true если уведомления включены.
func (c *Config) NotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Notifications
}

// UILanguage возвращает язык интерфейса.
func (c *Config) UILanguage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.UILanguage
}

// SetUILanguage устанавливает язык интерфейса.
func (c *Config) SetUILanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.UILanguage = lang
	c.save()
}
