package shell

import (
	"bytes"
	"strings"
	"sync"
)

// LineWriter 把流式输出切分为完整的行，每行去掉结尾的 \r 后交给 emit。
// 未以换行结束的残余内容在 Close 时输出。
type LineWriter struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	emit func(line string)
}

func NewLineWriter(emit func(line string)) *LineWriter {
	return &LineWriter{emit: emit}
}

func (w *LineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buf.Write(p)
	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx < 0 {
			break
		}
		line := string(w.buf.Next(idx + 1))
		w.emitLine(strings.TrimSuffix(line, "\n"))
	}
	return len(p), nil
}

// Close flushes any trailing partial line.
func (w *LineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emitLine(w.buf.String())
		w.buf.Reset()
	}
	return nil
}

func (w *LineWriter) emitLine(line string) {
	if w.emit != nil {
		w.emit(strings.TrimSuffix(line, "\r"))
	}
}
