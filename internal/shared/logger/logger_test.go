package logger

import "testing"

func TestNew(t *testing.T) {
	for _, env := range []string{"local", "dev", "prod"} {
		l, err := New("betting-api", env)
		if err != nil {
			t.Fatalf("New(%q): %v", env, err)
		}
		if l == nil {
			t.Fatalf("New(%q): nil logger", env)
		}
		l.Info("boot")
		_ = l.Sync()
	}
}
