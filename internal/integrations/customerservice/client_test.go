package customerservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/customers/5":
			_, _ = w.Write([]byte(`{"id":5,"company_id":1,"full_name":"Ivan"}`))
		case "/internal/customers/6":
			w.WriteHeader(http.StatusNotFound)
		case "/internal/customers/8":
			_, _ = w.Write([]byte(`{"id":9,"company_id":1,"full_name":"Petr"}`))
		case "/internal/customers/10":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":400,"message":"invalid customer id"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetCustomer(t *testing.T) {
	c := NewClient(newServer(t).URL, time.Second, nopLogger{})

	customer, err := c.GetCustomer(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(1), customer.CompanyID)

	_, err = c.GetCustomer(context.Background(), 6)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = c.GetCustomer(context.Background(), 7)
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestClient_GetCustomer_InvalidResponses(t *testing.T) {
	c := NewClient(newServer(t).URL, time.Second, nopLogger{})

	_, err := c.GetCustomer(context.Background(), 8)
	assert.ErrorIs(t, err, ErrInvalidResponse, "a different customer in the body is rejected")

	_, err = c.GetCustomer(context.Background(), 10)
	require.ErrorIs(t, err, ErrInvalidResponse)
	assert.Contains(t, err.Error(), "invalid customer id")
}

func TestClient_GetCustomerWithGracefulDegradation_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c := NewClient(srv.URL, time.Second, nopLogger{})

	_, err := c.GetCustomerWithGracefulDegradation(context.Background(), 5)
	assert.ErrorIs(t, err, ErrServiceDegraded)
	assert.NotErrorIs(t, err, ErrCustomerNotFound)
}

func TestClient_GetCustomerWithGracefulDegradation(t *testing.T) {
	c := NewClient(newServer(t).URL, time.Second, nopLogger{})

	_, err := c.GetCustomerWithGracefulDegradation(context.Background(), 6)
	assert.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = c.GetCustomerWithGracefulDegradation(context.Background(), 7)
	assert.ErrorIs(t, err, ErrServiceDegraded)
}
