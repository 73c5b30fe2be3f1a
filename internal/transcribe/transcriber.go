package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// DefaultTimeout bounds how long a session waits for a final transcript.
	DefaultTimeout = 10 * time.Second
	// MaxTimeout caps requested timeouts so a bad value can never block a
	// session for more than a minute.
	MaxTimeout = 60 * time.Second

	// NoSpeech is the sentinel returned when no terminal transcript arrives
	// before the timeout.
	NoSpeech = "No speech detected"
)

// AudioSource supplies raw PCM frames from a capture device. ReadFrame blocks
// until a frame is available and returns io.EOF when the source is exhausted.
type AudioSource interface {
	ReadFrame() ([]byte, error)
	Close() error
}

type Config struct {
	URL        string
	APIKey     string
	SampleRate int
}

// Transcriber runs streaming speech-to-text sessions against an
// AssemblyAI-style realtime socket: audio frames go up as binary messages,
// transcript turns come down as JSON.
type Transcriber struct {
	url        string
	apiKey     string
	sampleRate int
	dialer     *websocket.Dialer
}

func New(cfg *Config) *Transcriber {
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &Transcriber{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		sampleRate: sampleRate,
		dialer:     websocket.DefaultDialer,
	}
}

type turnMessage struct {
	Type            string `json:"type"`
	TurnIsFormatted bool   `json:"turn_is_formatted"`
	Transcript      string `json:"transcript"`
}

// Transcribe opens a streaming session, pumps audio from source, and resolves
// to the first formatted transcript turn. If none arrives within the (clamped)
// timeout it returns the NoSpeech sentinel instead of blocking.
func (t *Transcriber) Transcribe(ctx context.Context, source AudioSource, timeout time.Duration) (string, error) {
	timeout = clampTimeout(timeout)

	sessionURL, err := t.sessionURL()
	if err != nil {
		return "", err
	}

	header := http.Header{}
	if t.apiKey != "" {
		header.Set("Authorization", t.apiKey)
	}

	conn, _, err := t.dialer.DialContext(ctx, sessionURL, header)
	if err != nil {
		return "", fmt.Errorf("dial transcription socket: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }

	var mu sync.Mutex
	var transcript string

	// reader: wait for the first formatted turn
	go func() {
		defer finish()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg turnMessage
			if err := json.Unmarshal(data, &msg); err != nil {
				continue
			}
			if msg.Type == "Turn" && msg.TurnIsFormatted {
				mu.Lock()
				transcript = msg.Transcript
				mu.Unlock()
				return
			}
		}
	}()

	// pump: push audio frames until the session ends
	go func() {
		defer source.Close()
		for {
			select {
			case <-done:
				return
			default:
			}

			frame, err := source.ReadFrame()
			if err != nil {
				if err != io.EOF {
					log.Printf("transcribe: read audio frame: %v", err)
				}
				return
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	// unblocks the reader goroutine if it is still waiting
	conn.Close()

	mu.Lock()
	defer mu.Unlock()
	if transcript == "" {
		return NoSpeech, nil
	}
	return transcript, nil
}

func (t *Transcriber) sessionURL() (string, error) {
	u, err := url.Parse(t.url)
	if err != nil {
		return "", fmt.Errorf("parse transcription URL: %w", err)
	}
	q := u.Query()
	q.Set("sample_rate", fmt.Sprintf("%d", t.sampleRate))
	q.Set("format_turns", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// clampTimeout applies the default and the hard cap.
func clampTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return DefaultTimeout
	}
	if d > MaxTimeout {
		return MaxTimeout
	}
	return d
}
