package core

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	// 5 reqs/sec, 10 reqs/min, 1s ban
	rl := NewRateLimiter(5, 10, 1*time.Second)
	ip := "127.0.0.1"

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow(ip), "Request %d should be allowed", i)
	}

	// 超过秒级限制后封禁
	assert.False(t, rl.Allow(ip), "6th request should be blocked")
	assert.True(t, rl.IsBanned(ip), "IP should be banned")

	// 不同 IP 互不影响
	assert.True(t, rl.Allow("10.0.0.1"))
}

func TestOriginChecker(t *testing.T) {
	oc := NewOriginChecker([]string{"https://example.com"})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, oc.Check(r), "没有 Origin 头时放行")

	r.Header.Set("Origin", "https://example.com")
	assert.True(t, oc.Check(r))

	r.Header.Set("Origin", "https://EXAMPLE.com")
	assert.True(t, oc.Check(r), "来源匹配不区分大小写")

	r.Header.Set("Origin", "https://evil.com")
	assert.False(t, oc.Check(r))

	anyOrigin := NewOriginChecker([]string{"*"})
	assert.True(t, anyOrigin.Check(r))
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.168.1.5:12345"
	assert.Equal(t, "192.168.1.5", GetClientIP(r))

	r.Header.Set("X-Real-IP", "1.2.3.4")
	assert.Equal(t, "1.2.3.4", GetClientIP(r))

	r.Header.Set("X-Forwarded-For", "5.6.7.8, 1.2.3.4")
	assert.Equal(t, "5.6.7.8", GetClientIP(r), "取转发链中最原始的客户端 IP")
}
