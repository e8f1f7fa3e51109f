// Package i18n provides internationalization support.
package i18n

import (
	"fmt"
	"sync"
)

// Language represents a UI language.
type Language string

const (
	RU Language = "ru"
	EN Language = "en"
)

var (
	mu      sync.RWMutex
	current = RU // Default language
)

// Translations for all supported languages.
var translations = map[Language]map[string]string{
	RU: {
		// App
		"app_name":    "Spaceduck",
		"app_tooltip": "Spaceduck - диктовка по клавише",

		// Tray menu
		"tray_ready":              "Готов к работе",
		"tray_recording_chat":     "Диктовка в чат...",
		"tray_recording_global":   "Диктовка...",
		"tray_unavailable":        "Клавиша недоступна",
		"tray_trigger_key":        "Клавиша: %s",
		"tray_trigger_key_hint":   "Выбрать клавишу для диктовки",
		"tray_hotkey":             "Комбинация: %s",
		"tray_hotkey_hint":        "Выбрать комбинацию для диктовки",
		"tray_open_chat":          "Открыть чат",
		"tray_language":           "Язык интерфейса",
		"tray_notifications":      "Уведомления",
		"tray_notifications_hint": "Показывать уведомления",
		"tray_quit":               "Выход",
		"tray_quit_hint":          "Закрыть приложение",

		// Notifications
		"notify_start_chat":         "Диктовка в чат",
		"notify_start_global":       "Диктовка",
		"notify_start_hint":         "Отпустите клавишу, чтобы закончить",
		"notify_unavailable":        "Клавиша недоступна",
		"notify_unavailable_hint":   "Разрешите доступ в Универсальном доступе и Мониторинге ввода",
		"notify_sidecar_terminated": "Сервер диктовки остановлен",
		"notify_sidecar_hint":       "Перезапустите приложение",
		"notify_ready":              "Spaceduck готов к работе",

		// Indicator
		"indicator_recording": "Диктовка",

		// Main window
		"window_idle":        "Удерживайте %s для диктовки",
		"window_chat":        "Диктовка в чат...",
		"window_global":      "Диктовка в активное окно...",
		"window_unavailable": "Клавиша недоступна, повтор...",
		"window_server_wait": "Запуск сервера...",
		"window_server_up":   "Сервер готов",
		"window_server_down": "Сервер остановлен",
		"window_open_chat":   "Открыть чат",

		// Dialogs
		"dialog_trigger_title": "Клавиша диктовки",
		"dialog_trigger_text":  "Выберите клавишу, которую нужно удерживать:",
		"dialog_mods_title":    "Настройка горячей клавиши - Модификаторы",
		"dialog_mods_text":     "Выберите модификаторы:",
		"dialog_mods_empty":    "необходимо выбрать хотя бы один модификатор",
		"dialog_key_title":     "Настройка горячей клавиши - Клавиша",
		"dialog_key_text":      "Выберите клавишу:",
		"dialog_error":         "Ошибка",
	},
	EN: {
		// App
		"app_name":    "Spaceduck",
		"app_tooltip": "Spaceduck - hold-to-dictate",

		// Tray menu
		"tray_ready":              "Ready",
		"tray_recording_chat":     "Dictating to chat...",
		"tray_recording_global":   "Dictating...",
		"tray_unavailable":        "Trigger key unavailable",
		"tray_trigger_key":        "Key: %s",
		"tray_trigger_key_hint":   "Choose the dictation key",
		"tray_hotkey":             "Combo: %s",
		"tray_hotkey_hint":        "Choose the dictation combo",
		"tray_open_chat":          "Open chat",
		"tray_language":           "Interface language",
		"tray_notifications":      "Notifications",
		"tray_notifications_hint": "Show notifications",
		"tray_quit":               "Quit",
		"tray_quit_hint":          "Close the application",

		// Notifications
		"notify_start_chat":         "Dictating to chat",
		"notify_start_global":       "Dictating",
		"notify_start_hint":         "Release the key to finish",
		"notify_unavailable":        "Trigger key unavailable",
		"notify_unavailable_hint":   "Grant Accessibility and Input Monitoring access",
		"notify_sidecar_terminated": "Dictation server stopped",
		"notify_sidecar_hint":       "Restart the application",
		"notify_ready":              "Spaceduck is ready",

		// Indicator
		"indicator_recording": "Dictation",

		// Main window
		"window_idle":        "Hold %s to dictate",
		"window_chat":        "Dictating to chat...",
		"window_global":      "Dictating to the active window...",
		"window_unavailable": "Trigger key unavailable, retrying...",
		"window_server_wait": "Starting server...",
		"window_server_up":   "Server ready",
		"window_server_down": "Server stopped",
		"window_open_chat":   "Open chat",

		// Dialogs
		"dialog_trigger_title": "Dictation key",
		"dialog_trigger_text":  "Choose the key to hold:",
		"dialog_mods_title":    "Hotkey setup - Modifiers",
		"dialog_mods_text":     "Choose modifiers:",
		"dialog_mods_empty":    "at least one modifier is required",
		"dialog_key_title":     "Hotkey setup - Key",
		"dialog_key_text":      "Choose a key:",
		"dialog_error":         "Error",
	},
}

// T returns the translation for the given key.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	if strings, ok := translations[current]; ok {
		if s, ok := strings[key]; ok {
			return s
		}
	}
	// Fallback to key itself
	return key
}

// Tf formats the translation for the given key.
func Tf(key string, args ...any) string {
	return fmt.Sprintf(T(key), args...)
}

// SetLanguage sets the current UI language.
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	current = lang
}

// GetLanguage returns the current UI language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// AvailableLanguages returns list of supported languages.
func AvailableLanguages() []Language {
	return []Language{RU, EN}
}

// LanguageName returns display name for a language.
func LanguageName(lang Language) string {
	switch lang {
	case RU:
		return "Русский"
	case EN:
		return "English"
	default:
		return string(lang)
	}
}
