package memstore

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-RoomReservationService/internal/domain"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-RoomReservationService/internal/integrations/customerservice"
)

// Catalog каталог номеров в памяти
type Catalog struct {
	s *Store
}

// Catalog читатель номеров
func (s *Store) Catalog() *Catalog {
	return &Catalog{s: s}
}

func (c *Catalog) GetRoom(ctx context.Context, roomID int64) (*domain.Room, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fail("Catalog.GetRoom"); err != nil {
		return nil, err
	}

	room, ok := c.s.rooms[roomID]
	if !ok {
		return nil, catalogservice.ErrRoomNotFound
	}
	cp := *room
	return &cp, nil
}

func (c *Catalog) ListCompanyRooms(ctx context.Context, companyID int64) ([]*domain.Room, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fail("Catalog.ListCompanyRooms"); err != nil {
		return nil, err
	}

	rooms := make([]*domain.Room, 0)
	for _, room := range c.s.rooms {
		if room.CompanyID == companyID {
			cp := *room
			rooms = append(rooms, &cp)
		}
	}
	if len(rooms) == 0 {
		return nil, catalogservice.ErrCompanyNotFound
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

// Customers сервис клиентов в памяти
type Customers struct {
	s *Store
}

// Customers читатель клиентов
func (s *Store) Customers() *Customers {
	return &Customers{s: s}
}

func (c *Customers) GetCustomerWithGracefulDegradation(ctx context.Context, customerID int64) (*domain.Customer, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if err := c.s.fail("Customers.GetCustomer"); err != nil {
		return nil, err
	}

	customer, ok := c.s.customers[customerID]
	if !ok {
		return nil, customerservice.ErrCustomerNotFound
	}
	cp := *customer
	return &cp, nil
}
