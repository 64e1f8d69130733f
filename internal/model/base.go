package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewID returns a fresh opaque identifier for products and sales
func NewID() string {
	return uuid.NewString()
}

// Hook Before Create: rows written without an id still get a unique one
func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = NewID()
	}
	return
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = NewID()
	}
	return
}
