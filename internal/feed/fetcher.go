// feed — конкурентная загрузка и толерантный разбор новостной RSS-выдачи.
//
// Ключевое проектное решение — изоляция сбоев: один недоступный или
// отдающий мусор апстрим никогда не валит пакет запросов и не роняет
// соседние локали. Любой сбой (не-2xx, таймаут, сеть, разбор) даёт
// пустой список items для этого запроса, не ошибку наверх.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/news-alerts/internal/models"
	"github.com/pribylovaa/news-alerts/internal/planner"
	"github.com/pribylovaa/news-alerts/pkg/log"
)

const (
	defaultTimeout = 8 * time.Second
	defaultMaxConc = 8

	// Выдача режет запросы без браузерного User-Agent.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	acceptHeader     = "application/rss+xml, application/xml, text/xml"
	acceptLanguage   = "en-US,en;q=0.9"

	// maxBodyBytes — предохранитель от бесконечных/гигантских тел ответа.
	maxBodyBytes = 4 << 20
)

// Result — исход одного апстрим-запроса.
// Err заполняется только для логирования: агрегатор различает исходы
// исключительно по содержимому Items.
type Result struct {
	Request planner.Request
	Items   []models.FeedItem
	Err     error
}

// Fetcher выполняет запросы к выдаче параллельно, с отдельным таймаутом
// на каждый запрос. Параллелизм ограничен семафором maxConc.
// HTTP-клиент настраивается извне (прокси и т.п.).
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
	maxConc int
}

// New создаёт Fetcher. Нулевые параметры заменяются дефолтами
// (таймаут 8s, параллелизм 8).
func New(client *http.Client, timeout time.Duration, maxConcurrent int) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}

	if timeout <= 0 {
		timeout = defaultTimeout
	}

	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConc
	}

	return &Fetcher{client: client, timeout: timeout, maxConc: maxConcurrent}
}

// FetchAll запускает все дескрипторы параллельно и отдаёт исходы в канал.
// Канал закрывается после того, как завершатся все запросы — семантика
// «дождаться всех, наблюдать каждый исход отдельно», без fail-fast.
// Отмена ctx обрывает незавершённые запросы; их исходы придут с пустыми Items.
func (f *Fetcher) FetchAll(ctx context.Context, reqs []planner.Request) <-chan Result {
	output := make(chan Result)

	go func() {
		defer close(output)

		sem := make(chan struct{}, f.maxConc)

		for _, r := range reqs {
			req := r
			sem <- struct{}{}

			go func() {
				defer func() {
					<-sem
				}()

				items, err := f.fetchOne(ctx, req)

				output <- Result{Request: req, Items: items, Err: err}
			}()
		}

		for i := 0; i < cap(sem); i++ {
			sem <- struct{}{}
		}
	}()

	return output
}

// fetchOne выполняет один GET к выдаче и разбирает тело.
// Ошибка возвращается вместе с nil items — наверх она не эскалируется.
func (f *Fetcher) fetchOne(ctx context.Context, r planner.Request) ([]models.FeedItem, error) {
	const op = "feed.fetchOne"

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: new_request: %w", op, err)
	}

	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := f.client.Do(req)
	if err != nil {
		log.From(ctx).Warn("feed_http_error",
			slog.String("op", op),
			slog.String("locale", r.Locale),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("%s: do: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%s: status=%d", op, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read_body: %w", op, err)
	}

	return parseItems(string(body), r.Locale, time.Now().UTC()), nil
}
