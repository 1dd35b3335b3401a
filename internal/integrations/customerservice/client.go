package customerservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
)

// maxErrorBody сколько байт тела ошибки попадает в текст ошибки
const maxErrorBody = 512

// Client клиент CustomerService: проверка, что клиент существует и принадлежит компании
type Client struct {
	customersURL string
	httpClient   *http.Client
	log          Logger
}

// NewClient создает клиент, timeout ограничивает весь запрос вместе с чтением тела
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		customersURL: baseURL + "/internal/customers/",
		httpClient:   &http.Client{Timeout: timeout},
		log:          log,
	}
}

// GetCustomer получает клиента по ID
// 404 - ErrCustomerNotFound, сетевые сбои - ErrInternal, прочие ответы - ErrInvalidResponse
func (c *Client) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.customersURL+strconv.FormatInt(customerID, 10), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: customer_id=%d: %v", ErrInternal, customerID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrCustomerNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var customer Customer
	if err := json.NewDecoder(resp.Body).Decode(&customer); err != nil {
		return nil, fmt.Errorf("%w: decode customer: %v", ErrInvalidResponse, err)
	}
	if customer.ID != customerID {
		return nil, fmt.Errorf("%w: asked for customer %d, got %d", ErrInvalidResponse, customerID, customer.ID)
	}

	return customer.ToDomain(), nil
}

// GetCustomerWithGracefulDegradation как GetCustomer, но любой сбой сервиса превращается в ErrServiceDegraded
// ErrCustomerNotFound возвращается как есть: это ответ сервиса, а не его недоступность
func (c *Client) GetCustomerWithGracefulDegradation(ctx context.Context, customerID int64) (*domain.Customer, error) {
	customer, err := c.GetCustomer(ctx, customerID)
	switch {
	case err == nil:
		return customer, nil
	case errors.Is(err, ErrCustomerNotFound):
		return nil, err
	}

	c.log.Warn("customerservice: degraded for customer_id=%d: %v", customerID, err)
	return nil, fmt.Errorf("%w: %v", ErrServiceDegraded, err)
}

// statusError ошибка для неожиданного статуса, сообщение берется из ErrorResponse, если сервис его прислал
func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var e ErrorResponse
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, e.Message)
	}
	return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, body)
}
