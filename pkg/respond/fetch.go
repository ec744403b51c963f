package respond

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// HTTPClient интерфейс для выполнения HTTP запросов.
//
// Позволяет мокировать HTTP клиент в тестах.
// Стандартный *http.Client реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher докачивает сгенерированные изображения по URL провайдера.
//
// Скачивания идут конкурентно, но лимитер ограничивает темп исходящих
// запросов, а результаты собираются в порядке URL провайдера.
type Fetcher struct {
	httpClient HTTPClient
	limiter    *rate.Limiter
}

// NewFetcher создаёт fetcher с дефолтным HTTP клиентом.
//
// ratePerSec ограничивает темп скачиваний; burst — допустимый всплеск.
func NewFetcher(ratePerSec float64, burst int) *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}
}

// NewFetcherWithClient создаёт fetcher с переданным клиентом (для тестов).
func NewFetcherWithClient(client HTTPClient, ratePerSec float64, burst int) *Fetcher {
	return &Fetcher{
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}
}

// FetchAll скачивает все URL и возвращает байты в исходном порядке.
//
// Всё-или-ничего: первая же ошибка отменяет результат целиком,
// частичный успех не возвращается.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) ([][]byte, error) {
	results := make([][]byte, len(urls))
	errs := make([]error, len(urls))

	var wg sync.WaitGroup
	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()
			results[i], errs[i] = f.fetch(ctx, url)
		}(i, url)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// fetch скачивает один URL целиком в память.
func (f *Fetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	// 1. Ждем разрешения от лимитера
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	// 2. Выполняем запрос
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}

	return data, nil
}
