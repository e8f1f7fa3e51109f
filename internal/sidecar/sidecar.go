// Package sidecar запускает фоновый процесс диктовки и ждёт готовности его сервера.
package sidecar

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/exec"
	"sync"
	"time"

	"github.com/skratchdot/open-golang/open"

	"spaceduck/internal/events"
)

const requestTimeout = 500 * time.Millisecond

// Sink принимает сигналы о жизни процесса.
type Sink interface {
	Emit(name string)
}

// Process описывает фоновый процесс.
type Process struct {
	Path string
	Args []string
	Sink Sink
}

// Handle - запущенный процесс.
type Handle struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu  sync.Mutex
	err error
}

// Start запускает процесс и перенаправляет его вывод в лог.
// По завершении процесса в Sink уходит events.SidecarTerminated.
func (p Process) Start(ctx context.Context) (*Handle, error) {
	if p.Path == "" {
		return nil, errors.New("не задан путь к фоновому процессу")
	}

	cmd := exec.CommandContext(ctx, p.Path, p.Args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("запуск %s: %w", p.Path, err)
	}
	log.Printf("Фоновый процесс запущен: %s (pid %d)", p.Path, cmd.Process.Pid)

	h := &Handle{cmd: cmd, done: make(chan struct{})}

	var drained sync.WaitGroup
	drained.Add(2)
	go drain(&drained, stdout, "[sidecar stdout]")
	go drain(&drained, stderr, "[sidecar stderr]")

	go func() {
		// Wait закрывает пайпы, поэтому сначала дочитываем вывод
		drained.Wait()
		err := cmd.Wait()

		h.mu.Lock()
		h.err = err
		h.mu.Unlock()

		log.Printf("[sidecar] завершился: %v", exitStatus(cmd, err))
		if p.Sink != nil {
			p.Sink.Emit(events.SidecarTerminated)
		}
		close(h.done)
	}()

	return h, nil
}

func drain(wg *sync.WaitGroup, r io.Reader, prefix string) {
	defer wg.Done()
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		log.Printf("%s %s", prefix, scanner.Text())
	}
}

func exitStatus(cmd *exec.Cmd, err error) string {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.String()
	}
	if err != nil {
		return err.Error()
	}
	return "unknown"
}

// Done закрывается, когда процесс завершился.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err возвращает ошибку завершения процесса.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Stop завершает процесс.
func (h *Handle) Stop() {
	select {
	case <-h.done:
		return
	default:
	}
	if h.cmd.Process != nil {
		if err := h.cmd.Process.Kill(); err != nil {
			log.Printf("Ошибка остановки фонового процесса: %v", err)
		}
	}
	<-h.done
}

// WaitReady опрашивает url каждые poll, пока сервер не ответит или не
// пройдёт max. Любой HTTP-ответ считается готовностью.
func WaitReady(ctx context.Context, url string, poll, max time.Duration) bool {
	client := &http.Client{Timeout: requestTimeout}
	deadline := time.Now().Add(max)

	for time.Now().Before(deadline) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			log.Printf("Неверный адрес сервера %s: %v", url, err)
			return false
		}
		if resp, err := client.Do(req); err == nil {
			resp.Body.Close()
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(poll):
		}
	}
	return false
}

// Waiter ждёт готовности сервера и сообщает о ней.
type Waiter struct {
	URL    string
	Poll   time.Duration
	Max    time.Duration
	OpenUI bool
	Sink   Sink
	// Open открывает адрес в браузере. По умолчанию open.Run.
	Open func(input string) error
}

// Run ждёт сервер. При успехе шлёт events.SidecarReady и, если нужно,
// открывает UI.
func (w Waiter) Run(ctx context.Context) bool {
	if !WaitReady(ctx, w.URL, w.Poll, w.Max) {
		log.Printf("Сервер не запустился за %s", w.Max)
		return false
	}

	log.Printf("Сервер готов: %s", w.URL)
	if w.Sink != nil {
		w.Sink.Emit(events.SidecarReady)
	}

	if w.OpenUI {
		opener := w.Open
		if opener == nil {
			opener = open.Run
		}
		if err := opener(w.URL); err != nil {
			log.Printf("Не удалось открыть %s: %v", w.URL, err)
		}
	}
	return true
}
