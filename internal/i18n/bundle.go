package i18n

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/example/flowershop/internal/infrastructure/storage"
)

// DefaultLocale is used at startup and as the fallback when a key is
// missing from the active locale.
const DefaultLocale = "zh"

var ErrUnsupportedLocale = fmt.Errorf("unsupported locale")

// Bundle resolves message keys against the active locale and persists the
// locale preference.
type Bundle struct {
	mu      sync.RWMutex
	locale  string
	storage storage.Storage
}

// NewBundle restores the saved locale preference, falling back to the
// default when none is stored.
func NewBundle(ctx context.Context, st storage.Storage) *Bundle {
	b := &Bundle{locale: DefaultLocale, storage: st}

	var saved string
	ok, err := st.Get(ctx, storage.KeyLocale, &saved)
	if err != nil {
		log.Printf("[I18n] Failed to load locale preference: %v", err)
		return b
	}
	if ok {
		if _, supported := locales[saved]; supported {
			b.locale = saved
		}
	}
	return b
}

func (b *Bundle) Locale() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.locale
}

// SetLocale switches the active locale and persists the preference.
func (b *Bundle) SetLocale(ctx context.Context, locale string) error {
	if _, ok := locales[locale]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedLocale, locale)
	}
	b.mu.Lock()
	b.locale = locale
	b.mu.Unlock()

	if err := b.storage.Set(ctx, storage.KeyLocale, locale); err != nil {
		return fmt.Errorf("failed to persist locale: %w", err)
	}
	return nil
}

// T resolves a dotted message path with optional {{name}} parameters.
// Missing keys fall back to the default locale, then to the path itself.
func (b *Bundle) T(path string, params map[string]string) string {
	locale := b.Locale()

	value, ok := lookup(locale, path)
	if !ok && locale != DefaultLocale {
		value, ok = lookup(DefaultLocale, path)
	}
	if !ok {
		log.Printf("[I18n] Missing translation key %q in locale %q", path, locale)
		return path
	}

	for name, v := range params {
		value = strings.ReplaceAll(value, "{{"+name+"}}", v)
	}
	return value
}

// SupportedLocales returns the locales with a message catalog.
func SupportedLocales() []string {
	out := make([]string, 0, len(locales))
	for l := range locales {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func lookup(locale, path string) (string, bool) {
	var node any = locales[locale]
	for _, key := range strings.Split(path, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return "", false
		}
		node = m[key]
	}
	s, ok := node.(string)
	return s, ok
}
