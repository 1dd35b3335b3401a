package customerservice

import "github.com/m04kA/SMC-RoomReservationService/internal/domain"

// Customer модель клиента из CustomerService
type Customer struct {
	ID        int64  `json:"id"`
	CompanyID int64  `json:"company_id"`
	FullName  string `json:"full_name"`
}

// ToDomain конвертирует модель сервиса клиентов в доменного клиента
func (c *Customer) ToDomain() *domain.Customer {
	return &domain.Customer{ID: c.ID, CompanyID: c.CompanyID}
}

// ErrorResponse модель ошибки от CustomerService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
