package update_reservation_status

// UpdateStatusRequest HTTP request model
// Отмена выполняется через PATCH /reservations/{id}/cancel
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed checked_in checked_out"`
}
