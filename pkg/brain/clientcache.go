package brain

import (
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// ClientCache мемоизирует клиент провайдера по значению API ключа.
//
// Создание клиента на каждый вызов — лишняя работа, но ключ может
// смениться в настройках долгоживущего процесса, поэтому сравниваем
// значение и пересоздаём только при несовпадении. Чтение-сравнение-запись
// целиком под мьютексом: гонка двух вызовов с разными ключами невозможна.
type ClientCache struct {
	mu     sync.Mutex
	apiKey string
	client ProviderClient
	build  func(apiKey string) ProviderClient
}

// NewClientCache создаёт кэш, собирающий настоящий клиент OpenAI.
func NewClientCache() *ClientCache {
	return &ClientCache{
		build: func(apiKey string) ProviderClient {
			return openai.NewClient(apiKey)
		},
	}
}

// NewClientCacheWithBuilder создаёт кэш с произвольной фабрикой клиента.
// Используется в тестах для подмены провайдера.
func NewClientCacheWithBuilder(build func(apiKey string) ProviderClient) *ClientCache {
	return &ClientCache{build: build}
}

// Get возвращает клиент для ключа, пересоздавая его только при смене ключа.
func (c *ClientCache) Get(apiKey string) ProviderClient {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client == nil || c.apiKey != apiKey {
		c.client = c.build(apiKey)
		c.apiKey = apiKey
	}

	return c.client
}
