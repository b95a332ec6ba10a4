package redisstore

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func TestEmptyKeysNeverReachRedis(t *testing.T) {
	// Nothing listens on port 1; any round trip would fail.
	s := New(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "")
	defer s.Close()

	if s.prefix != "bb:ratelimit:" {
		t.Fatalf("prefix: want default got %q", s.prefix)
	}
	if v, err := s.Get(""); v != nil || err != nil {
		t.Fatalf("Get(empty): got %v %v", v, err)
	}
	if err := s.Set("", []byte("1"), time.Minute); err != nil {
		t.Fatalf("Set(empty): %v", err)
	}
	if err := s.Set("k", nil, time.Minute); err != nil {
		t.Fatalf("Set(nil value): %v", err)
	}
	if err := s.Delete(""); err != nil {
		t.Fatalf("Delete(empty): %v", err)
	}
}

func TestStorageAgainstRedis(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse REDIS_TEST_URL: %v", err)
	}
	s := New(redis.NewClient(opt), "bbtest:"+uuid.NewString()+":")
	defer s.Close()
	defer s.Reset()

	if v, err := s.Get("missing"); v != nil || err != nil {
		t.Fatalf("Get(missing): want nil,nil got %v %v", v, err)
	}
	if err := s.Set("ip", []byte("3"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := s.Get("ip")
	if err != nil || !bytes.Equal(v, []byte("3")) {
		t.Fatalf("Get: want 3 got %q err=%v", v, err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if v, _ := s.Get("ip"); v != nil {
		t.Fatalf("Get after Reset: got %q", v)
	}
}
