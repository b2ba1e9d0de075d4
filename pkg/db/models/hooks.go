package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Postgres fills IDs through the gen_random_uuid() column default. These
// hooks cover drivers without it (sqlite), generating the ID app-side
// before insert. A pre-set ID is always kept.

func fillID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (c *Cart) BeforeCreate(*gorm.DB) error         { fillID(&c.ID); return nil }
func (i *CartItem) BeforeCreate(*gorm.DB) error     { fillID(&i.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error     { fillID(&c.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error        { fillID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error    { fillID(&i.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error      { fillID(&p.ID); return nil }
func (c *ProductColor) BeforeCreate(*gorm.DB) error { fillID(&c.ID); return nil }
func (u *User) BeforeCreate(*gorm.DB) error         { fillID(&u.ID); return nil }
