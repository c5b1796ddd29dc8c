package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		build     func(*KeyBuilder) string
		want      string
	}{
		{"counter without namespace", "", func(k *KeyBuilder) string { return k.Counter("hello-world") }, "counter:hello-world"},
		{"counter with namespace", "blog", func(k *KeyBuilder) string { return k.Counter("hello-world") }, "blog:counter:hello-world"},
		{"counter keeps case", "", func(k *KeyBuilder) string { return k.Counter("Hello-World") }, "counter:Hello-World"},
		{"rate limit", "", func(k *KeyBuilder) string { return k.RateLimit("10.0.0.1") }, "rate:10.0.0.1"},
		{"pattern", "blog", func(k *KeyBuilder) string { return k.Pattern(PrefixCounter) }, "blog:counter:*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.build(NewKeyBuilder(tt.namespace)))
		})
	}
}
