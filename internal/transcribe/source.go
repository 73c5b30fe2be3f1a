package transcribe

import (
	"io"
)

// readerSource adapts an io.ReadCloser of raw 16-bit mono PCM into 50ms
// frames, which is how the upload transport hands microphone audio to a
// session.
type readerSource struct {
	r     io.ReadCloser
	frame []byte
}

// NewReaderSource wraps a PCM stream recorded at sampleRate Hz.
func NewReaderSource(r io.ReadCloser, sampleRate int) AudioSource {
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	// 50ms of mono 16-bit samples per frame
	frameSize := sampleRate / 20 * 2
	return &readerSource{r: r, frame: make([]byte, frameSize)}
}

func (s *readerSource) ReadFrame() ([]byte, error) {
	n, err := io.ReadFull(s.r, s.frame)
	if n > 0 {
		out := make([]byte, n)
		copy(out, s.frame[:n])
		return out, nil
	}
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return nil, err
}

func (s *readerSource) Close() error {
	return s.r.Close()
}
