package utils

import (
	"net/http/httptest"
	"testing"
)

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"127.0.0.1/32", " ::1/128 ", "192.168.1.0/24", "10.1.2.3", "garbage"})

	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"::1", true},
		{"::ffff:127.0.0.1", true},
		{"192.168.1.77", true},
		{"10.1.2.3", true},
		{"10.1.2.4", false},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		if got := m.Allow(tt.ip); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.ip, got, tt.want)
		}
	}
	if NewIPMatcher([]string{"", "nope"}).IsEmpty() != true {
		t.Error("matcher with only invalid entries should be empty")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "127.0.0.1:4000"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	if got := ClientIP(r, false); got != "127.0.0.1" {
		t.Errorf("ClientIP(untrusted) = %q", got)
	}
	if got := ClientIP(r, true); got != "203.0.113.9" {
		t.Errorf("ClientIP(trusted) = %q", got)
	}

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-IP", "198.51.100.4")
	if got := ClientIP(r, true); got != "198.51.100.4" {
		t.Errorf("ClientIP(real ip) = %q", got)
	}
}

func TestParseHostNoPort(t *testing.T) {
	for in, want := range map[string]string{
		"1.2.3.4:80": "1.2.3.4",
		"[::1]:80":   "::1",
		"::1":        "::1",
		"":           "",
	} {
		if got := ParseHostNoPort(in); got != want {
			t.Errorf("ParseHostNoPort(%q) = %q, want %q", in, got, want)
		}
	}
}
