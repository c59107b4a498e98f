package words

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
)

// Length is the fixed word length for every mode.
const Length = 5

//go:embed default_words.txt
var embeddedWords string

// List is the validated dictionary loaded once at startup. It is
// read-only after Load and safe for concurrent use without locking.
type List struct {
	words []string
	set   map[string]struct{}
}

// Load reads a flat word list (one word per line, '#' comments allowed)
// from path and validates every entry. An empty path loads the embedded
// default list so the server can run without any files configured.
func Load(path string) (*List, error) {
	if path == "" {
		return parse(bufio.NewReader(strings.NewReader(embeddedWords)).ReadString)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	return parse(bufio.NewReader(f).ReadString)
}

func parse(readLine func(byte) (string, error)) (*List, error) {
	var ws []string
	set := make(map[string]struct{})
	for {
		line, err := readLine('\n')
		word := Normalize(strings.TrimSuffix(line, "\n"))
		if word != "" && !strings.HasPrefix(word, "#") {
			if !IsWordShape(word) {
				return nil, fmt.Errorf("invalid dictionary word %q: must be %d letters A-Z", word, Length)
			}
			if _, dup := set[word]; !dup {
				set[word] = struct{}{}
				ws = append(ws, word)
			}
		}
		if err != nil {
			break
		}
	}
	if len(ws) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return &List{words: ws, set: set}, nil
}

// FromWords builds a list from an in-memory slice, applying the same
// validation as Load. Mostly useful for fixed fixtures.
func FromWords(ws []string) (*List, error) {
	i := 0
	return parse(func(byte) (string, error) {
		if i >= len(ws) {
			return "", io.EOF
		}
		w := ws[i]
		i++
		return w, nil
	})
}

// Normalize upper-cases and trims a raw client word.
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsWordShape reports whether s is exactly Length uppercase letters.
func IsWordShape(s string) bool {
	if len(s) != Length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// Contains reports dictionary membership. O(1).
func (l *List) Contains(word string) bool {
	_, ok := l.set[word]
	return ok
}

// Random returns a uniformly random word from the list.
func (l *List) Random() string {
	return l.words[rand.Intn(len(l.words))]
}

// Words returns a copy of the full list, in load order. Callers own the
// copy; candidate sets must never share backing storage across sessions.
func (l *List) Words() []string {
	out := make([]string, len(l.words))
	copy(out, l.words)
	return out
}

// Len returns the dictionary size.
func (l *List) Len() int {
	return len(l.words)
}
