package locale

import (
	"slices"
	"sync"

	"go.uber.org/atomic"
)

// Setting holds the session language. One instance is created at startup and
// handed to every component that renders text; only Toggle and Set change it.
type Setting struct {
	value *atomic.String

	mu        sync.Mutex
	observers []func(Language)
}

// NewSetting starts the session in lang.
func NewSetting(lang Language) *Setting {
	if lang != Spanish {
		lang = English
	}
	return &Setting{value: atomic.NewString(string(lang))}
}

// Get returns the current language.
func (s *Setting) Get() Language {
	return Language(s.value.Load())
}

// Toggle switches between English and Spanish and returns the new value.
func (s *Setting) Toggle() Language {
	for {
		cur := s.value.Load()
		next := Language(cur).Other()
		if s.value.CompareAndSwap(cur, string(next)) {
			s.notify(next)
			return next
		}
	}
}

// Set changes the language; observers are only notified on change.
func (s *Setting) Set(lang Language) {
	if lang != Spanish {
		lang = English
	}
	if Language(s.value.Swap(string(lang))) != lang {
		s.notify(lang)
	}
}

// Subscribe registers fn to run after each change.
func (s *Setting) Subscribe(fn func(Language)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

func (s *Setting) notify(lang Language) {
	s.mu.Lock()
	observers := slices.Clone(s.observers)
	s.mu.Unlock()
	for _, fn := range observers {
		fn(lang)
	}
}
