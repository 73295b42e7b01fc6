package stats

import (
	"testing"

	"catalog-go/internal/catalog"
)

func TestRedisStore_Keys(t *testing.T) {
	r := &RedisStore{prefix: "lms:"}

	tests := []struct {
		got  string
		want string
	}{
		{r.totalKey(), "lms:visits:total"},
		{r.uniqueKey(), "lms:visits:unique"},
		{r.clicksKey(catalog.ClassLesson), "lms:clicks:lesson"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("key = %q, want %q", tt.got, tt.want)
		}
	}
}
