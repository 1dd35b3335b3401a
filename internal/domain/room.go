package domain

import "github.com/shopspring/decimal"

// Room номер из каталога (только для чтения, владелец данных - сервис каталога)
type Room struct {
	ID           int64
	CompanyID    int64
	Name         string
	BasePrice    decimal.Decimal // базовая цена за ночь
	MaxOccupancy int
}

// Customer клиент из сервиса клиентов (только для чтения)
type Customer struct {
	ID        int64
	CompanyID int64
}
