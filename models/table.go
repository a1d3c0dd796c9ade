package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Base status meja. Status lain (booked, checked-in, overdue) adalah hasil
// derivasi dari booking aktif, bukan field yang disimpan.
const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
)

// Properties adalah daftar tag meja (mis. "window", "outdoor") yang disimpan
// sebagai kolom JSON.
type Properties []string

func (p Properties) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Properties) Scan(value interface{}) error {
	if value == nil {
		*p = Properties{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported type for properties: %T", value)
	}
}

type Table struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TableNumber string     `gorm:"type:varchar(50);not null" json:"table_number"`
	Capacity    int        `gorm:"not null;default:2" json:"capacity"`
	Properties  Properties `gorm:"type:json" json:"properties"`
	Status      string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

// HasProperty -> cek apakah meja punya tag tertentu (untuk filter wizard).
func (t *Table) HasProperty(tag string) bool {
	for _, p := range t.Properties {
		if p == tag {
			return true
		}
	}
	return false
}
