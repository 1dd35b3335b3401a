package catalogservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// BreakerSettings параметры circuit breaker
type BreakerSettings struct {
	MaxFailures uint32        // подряд идущих ошибок до размыкания
	OpenTimeout time.Duration // время в разомкнутом состоянии до пробного запроса
}

// Client клиент сервиса каталога (номера и их базовые цены)
// Все запросы идут через circuit breaker, ответы 404 ошибками канала не считаются
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	log        Logger
}

// NewClient создает новый экземпляр клиента сервиса каталога
func NewClient(baseURL string, timeout time.Duration, breaker BreakerSettings, log Logger) *Client {
	if breaker.MaxFailures == 0 {
		breaker.MaxFailures = 3
	}
	if breaker.OpenTimeout <= 0 {
		breaker.OpenTimeout = 10 * time.Second
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		cb:  newCircuitBreaker("catalogservice", breaker, log),
		log: log,
	}
}

func newCircuitBreaker(name string, s BreakerSettings, log Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.OpenTimeout,
		Interval:    0,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.MaxFailures
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker '%s' changed from '%s' to '%s'", name, from, to)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrCompanyNotFound)
		},
	})
}

// GetRoom получает номер по ID
func (c *Client) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	url := fmt.Sprintf("%s/internal/rooms/%d", c.baseURL, roomID)

	var room Room
	if err := c.get(ctx, url, ErrRoomNotFound, &room); err != nil {
		return nil, err
	}

	return room.ToDomain(), nil
}

// ListCompanyRooms получает все номера компании
func (c *Client) ListCompanyRooms(ctx context.Context, companyID int64) ([]*domain.Room, error) {
	url := fmt.Sprintf("%s/internal/companies/%d/rooms", c.baseURL, companyID)

	var rooms []Room
	if err := c.get(ctx, url, ErrCompanyNotFound, &rooms); err != nil {
		return nil, err
	}

	result := make([]*domain.Room, 0, len(rooms))
	for i := range rooms {
		result = append(result, rooms[i].ToDomain())
	}
	return result, nil
}

// get выполняет GET через circuit breaker и декодирует JSON-ответ в dst
func (c *Client) get(ctx context.Context, url string, notFound error, dst interface{}) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.doGet(ctx, url, notFound, dst)
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.log.Error("catalogservice: circuit open, request to %s rejected", url)
		return fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return err
}

func (c *Client) doGet(ctx context.Context, url string, notFound error, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
