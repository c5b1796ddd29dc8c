package cache

import "fmt"

// KeyPrefix - префиксы для разных типов ключей
type KeyPrefix string

const (
	PrefixCounter   KeyPrefix = "counter" // counter:slug
	PrefixRateLimit KeyPrefix = "rate"    // rate:clientIP
)

// KeyBuilder - построитель ключей
type KeyBuilder struct {
	namespace string
}

func NewKeyBuilder(namespace string) *KeyBuilder {
	return &KeyBuilder{namespace: namespace}
}

// Build создает ключ с префиксом и опциональным namespace
func (k *KeyBuilder) Build(prefix KeyPrefix, parts ...string) string {
	key := string(prefix)

	if k.namespace != "" {
		key = k.namespace + ":" + key
	}

	for _, part := range parts {
		key += ":" + part
	}

	return key
}

// Counter - хэш со views, likes и updated_at одной статьи
func (k *KeyBuilder) Counter(slug string) string {
	return k.Build(PrefixCounter, slug)
}

func (k *KeyBuilder) RateLimit(clientIP string) string {
	return k.Build(PrefixRateLimit, clientIP)
}

// Pattern возвращает паттерн для поиска ключей
func (k *KeyBuilder) Pattern(prefix KeyPrefix) string {
	if k.namespace != "" {
		return fmt.Sprintf("%s:%s:*", k.namespace, prefix)
	}
	return fmt.Sprintf("%s:*", prefix)
}
