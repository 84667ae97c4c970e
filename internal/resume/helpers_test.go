package resume

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const sampleModelOutput = "```json\n" + `{
  "skills": ["Go", "React", " go ", "Machine Learning", "Project Management", "Figma", "Kubernetes", "SQL"],
  "education": [{"degree": "BSc Computer Science", "institution": "State University", "period": "2014 - 2018"}],
  "experience": null,
  "summary": "  Backend engineer.  ",
  "recommendations": ["Learn Rust", ""]
}` + "\n```"

type stubGenerator struct {
	mu      sync.Mutex
	out     string
	err     error
	prompts []string
}

func (s *stubGenerator) GenerateText(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.out, s.err
}

func (s *stubGenerator) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}
